package printer

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/slok/sendtovrc/internal/imagecheck"
	"github.com/slok/sendtovrc/internal/model"
)

// TablePrinter prints information in a human friendly table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintSendState prints the state of a submission.
func (t *TablePrinter) PrintSendState(st model.SendState) error {
	fmt.Fprintf(t.writer, "Destination:  %s\n", st.Destination)
	fmt.Fprintf(t.writer, "Status:       %s\n", st.Status)

	switch st.Status {
	case model.SendStatusUploading:
		fmt.Fprintf(t.writer, "Progress:     %s\n", st.Progress)
	case model.SendStatusDone:
		if st.URL != "" {
			fmt.Fprintf(t.writer, "URL:          %s\n", st.URL)
		}
	case model.SendStatusError:
		fmt.Fprintf(t.writer, "Error:        %s\n", st.Message)
	}

	return nil
}

// PrintHistory prints the submissions in a table format.
func (t *TablePrinter) PrintHistory(sends []model.Send) error {
	if len(sends) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tDESTINATION\tSTATUS\tRESULT\tFILE\tSENT")

	for _, s := range sends {
		result := s.URL
		if s.Status == model.SendStatusError {
			result = s.Error
		}
		if result == "" {
			result = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", s.ID, s.Destination, s.Status, result, s.FilePath, timeAgo(time.Now(), s.CreatedAt))
	}

	return nil
}

// PrintImageCheck prints the check of a file.
func (t *TablePrinter) PrintImageCheck(c ImageCheck) error {
	fmt.Fprintf(t.writer, "File:      %s\n", c.Path)
	fmt.Fprintf(t.writer, "Validity:  %s\n", c.Validity)

	if c.Validity == imagecheck.Valid && c.Image != nil {
		fmt.Fprintf(t.writer, "Format:    %s\n", c.Image.Format)
		fmt.Fprintf(t.writer, "Size:      %dx%d\n", c.Image.Width, c.Image.Height)
	}
	if c.SizeBytes > 0 {
		fmt.Fprintf(t.writer, "Bytes:     %s\n", formatBytes(c.SizeBytes))
	}

	return nil
}

// PrintCrop prints the result of a crop.
func (t *TablePrinter) PrintCrop(c Crop) error {
	fmt.Fprintf(t.writer, "Output:     %s\n", c.OutputPath)
	fmt.Fprintf(t.writer, "Selection:  top=%g left=%g right=%g bottom=%g\n", c.Bounding.Top, c.Bounding.Left, c.Bounding.Right, c.Bounding.Bottom)
	fmt.Fprintf(t.writer, "Pixels:     %dx%d at (%d,%d)\n", c.Pixels.Dx(), c.Pixels.Dy(), c.Pixels.Min.X, c.Pixels.Min.Y)
	return nil
}

// PrintWhoami prints the VRChat session user.
func (t *TablePrinter) PrintWhoami(w Whoami) error {
	if !w.LoggedIn {
		fmt.Fprintln(t.writer, "Not logged in")
		return nil
	}
	fmt.Fprintf(t.writer, "Logged in as %s\n", w.DisplayName)
	return nil
}

// PrintSettings prints the settings, credentials are masked.
func (t *TablePrinter) PrintSettings(settings []model.Setting) error {
	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "KEY\tVALUE")
	for _, s := range settings {
		fmt.Fprintf(tw, "%s\t%s\n", s.Key, maskSecret(s.Key, s.Value))
	}

	return nil
}

// PrintChecks prints the preflight checks with a summary.
func (t *TablePrinter) PrintChecks(results []model.CheckResult) error {
	for _, r := range results {
		fmt.Fprintf(t.writer, "  %s %-20s %s\n", statusIcon(r.Status), r.ID, r.Message)
	}

	sum := model.SummarizeChecks(results)
	warnings, errs := sum.Warnings, sum.Errors
	fmt.Fprintln(t.writer)
	switch {
	case errs == 0 && warnings == 0:
		fmt.Fprintln(t.writer, "All checks passed!")
	case errs == 0:
		fmt.Fprintf(t.writer, "%d warning(s)\n", warnings)
	case warnings == 0:
		fmt.Fprintf(t.writer, "%d error(s)\n", errs)
	default:
		fmt.Fprintf(t.writer, "%d error(s), %d warning(s)\n", errs, warnings)
	}

	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}

func statusIcon(status model.CheckStatus) string {
	switch status {
	case model.CheckStatusOK:
		return "OK"
	case model.CheckStatusWarning:
		return "!!"
	case model.CheckStatusError:
		return "XX"
	default:
		return "??"
	}
}
