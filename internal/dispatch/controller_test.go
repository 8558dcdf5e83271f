package dispatch

import (
	"errors"
	"testing"

	"image-upscaler/internal/channel"
	"image-upscaler/internal/domain"
	"image-upscaler/internal/i18n"
	"image-upscaler/internal/jobs"
	"image-upscaler/internal/notify"
)

// notice is one recorded notification.
type notice struct {
	title, description string
}

// failingChannel rejects every send.
type failingChannel struct{}

// Send always fails.
func (failingChannel) Send(domain.Command, any) error {
	return errors.New("backend gone")
}

// orderedChannel checks progress is already set when the send happens.
type orderedChannel struct {
	session     *jobs.Session
	sawProgress bool
}

// Send captures the progress state at send time.
func (c *orderedChannel) Send(domain.Command, any) error {
	c.sawProgress = c.session.Progress().Pending
	return nil
}

type harness struct {
	ctrl    *Controller
	rec     *channel.Recorder
	session *jobs.Session
	events  *jobs.EventBus
	notices []notice
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	tr, err := i18n.NewTranslator("en")
	if err != nil {
		t.Fatalf("NewTranslator() error = %v", err)
	}

	h := &harness{
		rec:     &channel.Recorder{},
		session: jobs.NewSession(),
		events:  jobs.NewEventBus(100),
	}
	ids := 0
	h.ctrl = NewController(Deps{
		Channel: h.rec,
		Notifier: notify.Func(func(title, description string) {
			h.notices = append(h.notices, notice{title, description})
		}),
		Translator: tr,
		Session:    h.session,
		Jobs:       jobs.NewManager(),
		Events:     h.events,
		NewID: func() string {
			ids++
			return "job-" + string(rune('0'+ids))
		},
	})
	return h
}

func singleScenarioConfig() domain.JobConfiguration {
	return domain.JobConfiguration{
		Model:          "realesrgan-x4plus",
		Scale:          4,
		GPUID:          "",
		SaveFormat:     "png",
		Compression:    3,
		CustomWidth:    0,
		UseCustomWidth: false,
		TileSize:       0,
		Overwrite:      true,
		OutputPath:     "/out",
	}
}

// TestDispatchSingleImage covers the single-image scenario end to end.
func TestDispatchSingleImage(t *testing.T) {
	h := newHarness(t)
	job, err := h.ctrl.Dispatch(singleScenarioConfig(), domain.InputSelection{ImagePath: "/a.png"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if job.Status != domain.JobStatusDispatched || job.Mode != domain.ModeSingle || job.ID != "job-1" {
		t.Fatalf("job = %+v", job)
	}

	sent := h.rec.Sent()
	if len(sent) != 1 {
		t.Fatalf("sends = %d, want 1", len(sent))
	}
	if sent[0].Command != domain.CommandUpscale {
		t.Fatalf("command = %s, want upscayl", sent[0].Command)
	}
	p, ok := sent[0].Payload.(SinglePayload)
	if !ok {
		t.Fatalf("payload = %T, want SinglePayload", sent[0].Payload)
	}
	if p.ImagePath != "/a.png" || p.Model != "realesrgan-x4plus" || p.Scale != 4 {
		t.Fatalf("payload = %+v", p)
	}
	if p.GPUID != nil || p.CustomWidth != nil {
		t.Fatalf("gpuId/customWidth should be absent: %+v", p)
	}
	if p.Compression != "3" || !p.Overwrite {
		t.Fatalf("compression/overwrite = %q/%v", p.Compression, p.Overwrite)
	}

	progress := h.ctrl.Progress()
	if !progress.Pending || progress.Message != "Let's Go!" {
		t.Fatalf("progress = %+v", progress)
	}
	if len(h.notices) != 0 {
		t.Fatalf("notices = %v, want none", h.notices)
	}
}

// TestDispatchBatchFolder covers the batch scenario keyed on the folder path.
func TestDispatchBatchFolder(t *testing.T) {
	h := newHarness(t)
	_, err := h.ctrl.Dispatch(singleScenarioConfig(), domain.InputSelection{
		BatchFolderPath: "/batch",
		BatchMode:       true,
	})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	sent := h.rec.Sent()
	if len(sent) != 1 || sent[0].Command != domain.CommandFolderUpscale {
		t.Fatalf("sent = %+v", sent)
	}
	p, ok := sent[0].Payload.(BatchPayload)
	if !ok || p.BatchFolderPath != "/batch" {
		t.Fatalf("payload = %#v", sent[0].Payload)
	}
}

// TestDispatchDoubleWinsOverBatch verifies double precedence despite batch mode.
func TestDispatchDoubleWinsOverBatch(t *testing.T) {
	h := newHarness(t)
	job, err := h.ctrl.Dispatch(singleScenarioConfig(), domain.InputSelection{
		ImagePath:     "/a.png",
		DoubleUpscale: true,
		BatchMode:     true,
	})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if job.Mode != domain.ModeDouble {
		t.Fatalf("mode = %s, want double", job.Mode)
	}

	sent := h.rec.Sent()
	if len(sent) != 1 || sent[0].Command != domain.CommandDoubleUpscale {
		t.Fatalf("sent = %+v", sent)
	}
	if p, ok := sent[0].Payload.(DoublePayload); !ok || p.ImagePath != "/a.png" {
		t.Fatalf("payload = %#v", sent[0].Payload)
	}
}

// TestDispatchNoInputNotifiesOnce checks the rejection path has no side effects beyond the notice.
func TestDispatchNoInputNotifiesOnce(t *testing.T) {
	h := newHarness(t)
	job, err := h.ctrl.Dispatch(singleScenarioConfig(), domain.InputSelection{BatchMode: true})
	if !errors.Is(err, ErrNoInputSelected) {
		t.Fatalf("Dispatch() error = %v, want %v", err, ErrNoInputSelected)
	}
	if job.Status != domain.JobStatusIdle {
		t.Fatalf("status = %s, want idle", job.Status)
	}

	if len(h.rec.Sent()) != 0 {
		t.Fatalf("sends = %d, want 0", len(h.rec.Sent()))
	}
	if len(h.notices) != 1 {
		t.Fatalf("notices = %d, want 1", len(h.notices))
	}
	want := notice{"No image selected", "Please select an image or a folder to upscale"}
	if h.notices[0] != want {
		t.Fatalf("notice = %+v, want %+v", h.notices[0], want)
	}
	if h.ctrl.Progress().Pending {
		t.Fatal("progress must not be set on rejection")
	}

	messages := h.events.Messages()
	if len(messages) == 0 || messages[len(messages)-1] != "No valid image selected" {
		t.Fatalf("log messages = %v", messages)
	}
}

// TestDispatchBlankImagePathStillSends checks the guard only tests for empty strings.
func TestDispatchBlankImagePathStillSends(t *testing.T) {
	h := newHarness(t)
	_, err := h.ctrl.Dispatch(singleScenarioConfig(), domain.InputSelection{ImagePath: " "})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(h.rec.Sent()) != 1 {
		t.Fatalf("sends = %d, want 1", len(h.rec.Sent()))
	}
	if len(h.notices) != 0 {
		t.Fatalf("notices = %v, want none", h.notices)
	}
}

// TestDispatchRejectsWhilePending verifies the explicit re-entrancy guard.
func TestDispatchRejectsWhilePending(t *testing.T) {
	h := newHarness(t)
	sel := domain.InputSelection{ImagePath: "/a.png"}
	if _, err := h.ctrl.Dispatch(singleScenarioConfig(), sel); err != nil {
		t.Fatalf("first Dispatch() error = %v", err)
	}
	h.session.SetUpscaledImage("/out/prev.png")

	if _, err := h.ctrl.Dispatch(singleScenarioConfig(), sel); !errors.Is(err, jobs.ErrJobAlreadyRunning) {
		t.Fatalf("second Dispatch() error = %v, want %v", err, jobs.ErrJobAlreadyRunning)
	}
	if len(h.rec.Sent()) != 1 {
		t.Fatalf("sends = %d, want 1", len(h.rec.Sent()))
	}
	if h.ctrl.Results().ImagePath != "/out/prev.png" {
		t.Fatal("rejected dispatch must not touch results")
	}

	if err := h.ctrl.Finish("job-1", domain.JobStatusDone, "/out/a_upscayl_4x.png"); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if h.ctrl.Progress().Pending {
		t.Fatal("progress should clear on finish")
	}
	if _, err := h.ctrl.Dispatch(singleScenarioConfig(), sel); err != nil {
		t.Fatalf("Dispatch() after finish error = %v", err)
	}
	if len(h.rec.Sent()) != 2 {
		t.Fatalf("sends = %d, want 2", len(h.rec.Sent()))
	}
}

// TestDispatchClearsResultsBeforeSend checks stale outputs are invalidated and progress precedes the send.
func TestDispatchClearsResultsBeforeSend(t *testing.T) {
	session := jobs.NewSession()
	session.SetUpscaledImage("/out/old.png")
	session.SetUpscaledFolder("/out/old_batch")
	ch := &orderedChannel{session: session}

	ctrl := NewController(Deps{Channel: ch, Session: session})
	if _, err := ctrl.Dispatch(singleScenarioConfig(), domain.InputSelection{ImagePath: "/a.png"}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !ch.sawProgress {
		t.Fatal("progress must be set before the send")
	}
	if session.Results() != (domain.UpscaledResults{}) {
		t.Fatalf("results = %+v, want cleared", session.Results())
	}
}

// TestDispatchSendFailure verifies a failed send leaves the controller ready for a retry.
func TestDispatchSendFailure(t *testing.T) {
	ctrl := NewController(Deps{Channel: failingChannel{}})
	job, err := ctrl.Dispatch(singleScenarioConfig(), domain.InputSelection{ImagePath: "/a.png"})
	if !errors.Is(err, ErrSendFailed) {
		t.Fatalf("Dispatch() error = %v, want %v", err, ErrSendFailed)
	}
	if job.Status != domain.JobStatusFailed {
		t.Fatalf("status = %s, want failed", job.Status)
	}
	if ctrl.Progress().Pending {
		t.Fatal("progress should be cleared after failed send")
	}
}

// TestFinishRecordsResultsByMode checks batch outputs land in the folder slot.
func TestFinishRecordsResultsByMode(t *testing.T) {
	h := newHarness(t)
	if _, err := h.ctrl.Dispatch(singleScenarioConfig(), domain.InputSelection{BatchFolderPath: "/batch", BatchMode: true}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if err := h.ctrl.Finish("", domain.JobStatusDone, "/batch_upscayl"); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	results := h.ctrl.Results()
	if results.FolderPath != "/batch_upscayl" || results.ImagePath != "" {
		t.Fatalf("results = %+v", results)
	}
	if err := h.ctrl.Finish("", domain.JobStatusDone, ""); !errors.Is(err, jobs.ErrNoActiveJob) {
		t.Fatalf("second Finish() error = %v, want %v", err, jobs.ErrNoActiveJob)
	}
}
