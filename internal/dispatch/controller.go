package dispatch

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"image-upscaler/internal/channel"
	"image-upscaler/internal/domain"
	"image-upscaler/internal/i18n"
	"image-upscaler/internal/jobs"
	"image-upscaler/internal/logging"
	"image-upscaler/internal/notify"
)

// ErrSendFailed wraps a channel error for a dispatch that never reached the backend.
var ErrSendFailed = errors.New("send to backend failed")

// Translator resolves message ids to user-facing text.
type Translator interface {
	T(id string) string
}

// Deps are the collaborators a Controller reads from and writes to.
type Deps struct {
	Channel    channel.Channel
	Notifier   notify.Notifier
	Translator Translator
	Session    *jobs.Session
	Jobs       *jobs.Manager
	Events     *jobs.EventBus
	Logger     *logging.Logger
	NewID      func() string
}

// Controller validates a selection, builds its payload and sends it.
// At most one dispatch is in flight; a second Dispatch before Finish is rejected.
type Controller struct {
	channel    channel.Channel
	notifier   notify.Notifier
	translator Translator
	session    *jobs.Session
	jobs       *jobs.Manager
	events     *jobs.EventBus
	logger     *logging.Logger
	newID      func() string
}

// NewController wires a controller, filling unset optional collaborators.
func NewController(deps Deps) *Controller {
	c := &Controller{
		channel:    deps.Channel,
		notifier:   deps.Notifier,
		translator: deps.Translator,
		session:    deps.Session,
		jobs:       deps.Jobs,
		events:     deps.Events,
		logger:     deps.Logger,
		newID:      deps.NewID,
	}
	if c.session == nil {
		c.session = jobs.NewSession()
	}
	if c.jobs == nil {
		c.jobs = jobs.NewManager()
	}
	if c.events == nil {
		c.events = jobs.NewEventBus(0)
	}
	if c.logger == nil {
		c.logger = logging.Nop()
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	if c.translator == nil {
		c.translator = idTranslator{}
	}
	if c.notifier == nil {
		c.notifier = notify.Func(func(string, string) {})
	}
	return c
}

// Dispatch sends one upscale request for sel using cfg.
//
// ErrNoInputSelected is returned after the user has been notified; nothing is
// sent and progress is untouched. jobs.ErrJobAlreadyRunning is returned while a
// previous dispatch has not finished.
func (c *Controller) Dispatch(cfg domain.JobConfiguration, sel domain.InputSelection) (domain.Job, error) {
	jobID := c.newID()
	if err := c.jobs.Begin(jobID); err != nil {
		c.logger.Warn().Err(err).Msg("Dispatch rejected")
		return c.jobs.Current(), err
	}

	c.logit(jobID, "Resetting upscaled image path")
	c.session.ClearResults()

	if err := CheckInput(sel); err != nil {
		c.notifier.Notify(
			c.translator.T(i18n.NoImageErrorTitle),
			c.translator.T(i18n.NoImageErrorDescription),
		)
		c.logit(jobID, "No valid image selected")
		if rejectErr := c.jobs.Reject(); rejectErr != nil {
			return domain.Job{}, rejectErr
		}
		return c.jobs.Current(), err
	}

	mode := SelectMode(sel.DoubleUpscale, sel.BatchMode)
	payload := BuildPayload(mode, cfg, sel)

	c.session.SetProgress(c.translator.T(i18n.ProgressWaitTitle))
	sendErr := c.channel.Send(payload.Command(), payload)
	if err := c.jobs.MarkDispatched(mode); err != nil {
		return c.jobs.Current(), err
	}

	if sendErr != nil {
		c.logger.Error().Err(sendErr).Str("job", jobID).Str("command", string(payload.Command())).Msg("Dispatch send failed")
		c.events.Publish(jobs.Event{
			JobID:   jobID,
			Type:    jobs.EventTypeError,
			Status:  domain.JobStatusFailed,
			Mode:    mode,
			Command: payload.Command(),
			Message: sendErr.Error(),
		})
		c.session.ClearProgress()
		_ = c.jobs.Finish(jobID, domain.JobStatusFailed)
		return c.jobs.Current(), fmt.Errorf("%w: %w", ErrSendFailed, sendErr)
	}

	c.logit(jobID, commandLogLine(payload.Command()))
	c.events.Publish(jobs.Event{
		JobID:   jobID,
		Type:    jobs.EventTypeStatus,
		Status:  domain.JobStatusDispatched,
		Mode:    mode,
		Command: payload.Command(),
	})
	return c.jobs.Current(), nil
}

// Finish records the backend outcome for jobID and clears progress.
// An empty jobID finishes whichever job is in flight.
func (c *Controller) Finish(jobID string, status domain.JobStatus, outputPath string) error {
	current := c.jobs.Current()
	if err := c.jobs.Finish(jobID, status); err != nil {
		return err
	}
	c.session.ClearProgress()

	if status == domain.JobStatusDone && outputPath != "" {
		if current.Mode == domain.ModeBatch {
			c.session.SetUpscaledFolder(outputPath)
		} else {
			c.session.SetUpscaledImage(outputPath)
		}
	}

	eventType := jobs.EventTypeResult
	if status == domain.JobStatusFailed {
		eventType = jobs.EventTypeError
	}
	c.events.Publish(jobs.Event{
		JobID:      current.ID,
		Type:       eventType,
		Status:     status,
		Mode:       current.Mode,
		Command:    current.Command,
		OutputPath: outputPath,
	})
	c.logger.Info().Str("job", current.ID).Str("status", string(status)).Msg("Upscale finished")
	return nil
}

// Current returns the in-flight or last job.
func (c *Controller) Current() domain.Job {
	return c.jobs.Current()
}

// Progress returns the shared progress state.
func (c *Controller) Progress() domain.ProgressState {
	return c.session.Progress()
}

// Results returns the last upscaled outputs.
func (c *Controller) Results() domain.UpscaledResults {
	return c.session.Results()
}

// logit writes a diagnostic line to the logger and the UI event log.
func (c *Controller) logit(jobID, message string) {
	c.logger.Info().Str("job", jobID).Msg(message)
	c.events.Publish(jobs.Event{
		JobID:   jobID,
		Type:    jobs.EventTypeLog,
		Message: message,
	})
}

func commandLogLine(cmd domain.Command) string {
	switch cmd {
	case domain.CommandDoubleUpscale:
		return "DOUBLE_UPSCAYL"
	case domain.CommandFolderUpscale:
		return "FOLDER_UPSCAYL"
	default:
		return "UPSCAYL"
	}
}

type idTranslator struct{}

func (idTranslator) T(id string) string { return id }
