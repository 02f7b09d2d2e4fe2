package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/sendtovrc/internal/model"
)

// JSONPrinter prints information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type sendStateOutput struct {
	Destination string `json:"destination"`
	Status      string `json:"status"`
	Progress    string `json:"progress,omitempty"`
	URL         string `json:"url,omitempty"`
	Message     string `json:"message,omitempty"`
}

type sendOutput struct {
	ID          string    `json:"id"`
	Destination string    `json:"destination"`
	FilePath    string    `json:"file_path"`
	Status      string    `json:"status"`
	URL         string    `json:"url,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type imageCheckOutput struct {
	Path      string `json:"path"`
	Validity  string `json:"validity"`
	Format    string `json:"format,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

type cropOutput struct {
	OutputPath string     `json:"output_path"`
	Selection  rectOutput `json:"selection"`
	Pixels     [4]int     `json:"pixels"`
}

type rectOutput struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

type whoamiOutput struct {
	LoggedIn    bool   `json:"logged_in"`
	DisplayName string `json:"display_name,omitempty"`
}

type settingOutput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type checkOutput struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type messageOutput struct {
	Message string `json:"message"`
}

// PrintSendState prints the state of a submission in JSON format.
func (j *JSONPrinter) PrintSendState(st model.SendState) error {
	return j.encode(sendStateOutput{
		Destination: string(st.Destination),
		Status:      string(st.Status),
		Progress:    string(st.Progress),
		URL:         st.URL,
		Message:     st.Message,
	})
}

// PrintHistory prints the submissions in JSON format.
func (j *JSONPrinter) PrintHistory(sends []model.Send) error {
	items := make([]sendOutput, len(sends))
	for i, s := range sends {
		items[i] = sendOutput{
			ID:          s.ID,
			Destination: string(s.Destination),
			FilePath:    s.FilePath,
			Status:      string(s.Status),
			URL:         s.URL,
			Error:       s.Error,
			CreatedAt:   s.CreatedAt.UTC(),
		}
	}

	return j.encode(items)
}

// PrintImageCheck prints the check of a file in JSON format.
func (j *JSONPrinter) PrintImageCheck(c ImageCheck) error {
	out := imageCheckOutput{
		Path:      c.Path,
		Validity:  string(c.Validity),
		SizeBytes: c.SizeBytes,
	}
	if c.Image != nil {
		out.Format = c.Image.Format
		out.Width = c.Image.Width
		out.Height = c.Image.Height
	}

	return j.encode(out)
}

// PrintCrop prints the result of a crop in JSON format, pixels are
// [x0, y0, x1, y1].
func (j *JSONPrinter) PrintCrop(c Crop) error {
	return j.encode(cropOutput{
		OutputPath: c.OutputPath,
		Selection: rectOutput{
			Top:    c.Bounding.Top,
			Left:   c.Bounding.Left,
			Right:  c.Bounding.Right,
			Bottom: c.Bounding.Bottom,
		},
		Pixels: [4]int{c.Pixels.Min.X, c.Pixels.Min.Y, c.Pixels.Max.X, c.Pixels.Max.Y},
	})
}

// PrintWhoami prints the VRChat session user in JSON format.
func (j *JSONPrinter) PrintWhoami(w Whoami) error {
	return j.encode(whoamiOutput{LoggedIn: w.LoggedIn, DisplayName: w.DisplayName})
}

// PrintSettings prints the settings in JSON format, credentials are masked.
func (j *JSONPrinter) PrintSettings(settings []model.Setting) error {
	items := make([]settingOutput, len(settings))
	for i, s := range settings {
		items[i] = settingOutput{Key: s.Key, Value: maskSecret(s.Key, s.Value)}
	}

	return j.encode(items)
}

// PrintChecks prints the preflight checks in JSON format.
func (j *JSONPrinter) PrintChecks(results []model.CheckResult) error {
	items := make([]checkOutput, len(results))
	for i, r := range results {
		items[i] = checkOutput{ID: r.ID, Status: string(r.Status), Message: r.Message}
	}

	return j.encode(items)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
