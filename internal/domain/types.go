package domain

// JobStatus tracks the dispatch lifecycle of the single active upscale job.
type JobStatus string

const (
	JobStatusIdle       JobStatus = "idle"
	JobStatusValidating JobStatus = "validating"
	JobStatusDispatched JobStatus = "dispatched"
	JobStatusDone       JobStatus = "done"
	JobStatusFailed     JobStatus = "failed"
)

// Mode is one of the mutually exclusive upscale job kinds.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeBatch  Mode = "batch"
	ModeDouble Mode = "double"
)

// Command names the backend operation a payload is sent to.
type Command string

const (
	CommandUpscale       Command = "upscayl"
	CommandFolderUpscale Command = "folder-upscayl"
	CommandDoubleUpscale Command = "double-upscayl"
)

// Command returns the backend command that serves jobs of this mode.
func (m Mode) Command() Command {
	switch m {
	case ModeDouble:
		return CommandDoubleUpscale
	case ModeBatch:
		return CommandFolderUpscale
	default:
		return CommandUpscale
	}
}

// JobConfiguration is the set of user settings read at dispatch time.
type JobConfiguration struct {
	Model             string `json:"model" yaml:"model"`
	Scale             int    `json:"scale" yaml:"scale"`
	GPUID             string `json:"gpuId" yaml:"gpuId"`
	SaveFormat        string `json:"saveImageAs" yaml:"saveImageAs"`
	Compression       int    `json:"compression" yaml:"compression"`
	CustomWidth       int    `json:"customWidth" yaml:"customWidth"`
	UseCustomWidth    bool   `json:"useCustomWidth" yaml:"useCustomWidth"`
	TileSize          int    `json:"tileSize" yaml:"tileSize"`
	Overwrite         bool   `json:"overwrite" yaml:"overwrite"`
	OutputPath        string `json:"outputPath" yaml:"outputPath"`
	NoImageProcessing bool   `json:"noImageProcessing" yaml:"noImageProcessing"`
}

// InputSelection holds what the user picked to upscale and how.
// Both paths may be populated; the mode flags decide which one is used.
type InputSelection struct {
	ImagePath       string `json:"imagePath"`
	BatchFolderPath string `json:"batchFolderPath"`
	DoubleUpscale   bool   `json:"doubleUpscayl"`
	BatchMode       bool   `json:"batchMode"`
}

// HasInput reports whether an image or a folder has been selected.
// Paths are not inspected; any non-empty string counts.
func (s InputSelection) HasInput() bool {
	return s.ImagePath != "" || s.BatchFolderPath != ""
}

// Settings contains persisted user configuration.
type Settings struct {
	Job       JobConfiguration `json:"job" yaml:"job"`
	ModelsDir string           `json:"modelsDir" yaml:"modelsDir"`
	Locale    string           `json:"locale" yaml:"locale"`
	BatchMode bool             `json:"batchMode" yaml:"batchMode"`
}

// Job stores the current dispatch identity and lifecycle status.
type Job struct {
	ID      string    `json:"id"`
	Mode    Mode      `json:"mode,omitempty"`
	Command Command   `json:"command,omitempty"`
	Status  JobStatus `json:"status"`
}

// ProgressState is either empty (no job) or a pending job with a message.
type ProgressState struct {
	Pending bool   `json:"pending"`
	Message string `json:"message,omitempty"`
}

// UpscaledResults holds the last finished outputs shown by the UI.
type UpscaledResults struct {
	ImagePath  string `json:"imagePath,omitempty"`
	FolderPath string `json:"folderPath,omitempty"`
}
