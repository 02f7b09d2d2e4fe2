package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/sendtovrc/internal/app/crop"
	"github.com/slok/sendtovrc/internal/conventions"
	"github.com/slok/sendtovrc/internal/printer"
	"github.com/slok/sendtovrc/internal/selection"
)

type CropCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	input       string
	output      string
	from        string
	to          string
	cornerDrags []string
	scale       float64
	format      string
}

// NewCropCommand returns the crop command.
func NewCropCommand(rootCmd *RootCommand, app *kingpin.Application) *CropCommand {
	c := &CropCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("crop", "Crop a capture with a drag selection.")
	c.Cmd.Arg("input", "Image to crop.").Required().StringVar(&c.input)
	c.Cmd.Arg("output", "Cropped image path, the format is taken from the extension (default: <input>-cropped.<ext>).").StringVar(&c.output)
	c.Cmd.Flag("from", "Drag start point (x,y).").Required().StringVar(&c.from)
	c.Cmd.Flag("to", "Drag end point (x,y).").Required().StringVar(&c.to)
	c.Cmd.Flag("drag-corner", "Drag a corner handle of the selection (x1|x2,y1|y2,x,y), can be repeated.").StringsVar(&c.cornerDrags)
	c.Cmd.Flag("scale", "Image pixels per selection point.").Default("1").Float64Var(&c.scale)
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c CropCommand) Name() string { return c.Cmd.FullCommand() }

func (c CropCommand) Run(ctx context.Context) error {
	from, err := crop.ParsePoint(c.from)
	if err != nil {
		return err
	}
	to, err := crop.ParsePoint(c.to)
	if err != nil {
		return err
	}

	gestures := crop.SelectGestures(from, to)
	for _, d := range c.cornerDrags {
		evs, err := crop.ParseCornerDrag(d)
		if err != nil {
			return err
		}
		gestures = append(gestures, evs...)
	}

	output := c.output
	if output == "" {
		output = conventions.CroppedPath(c.input)
	}

	svc, err := crop.NewService(crop.ServiceConfig{Logger: c.rootCmd.Logger})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx, crop.Request{
		InputPath:  c.input,
		OutputPath: output,
		Gestures:   gestures,
		Scale:      c.scale,
	})
	if err != nil {
		return fmt.Errorf("could not crop: %w", err)
	}

	return c.rootCmd.printer(c.format).PrintCrop(printer.Crop{
		OutputPath: output,
		Bounding:   selection.Bounding(resp.Selection),
		Pixels:     resp.Pixels,
	})
}
