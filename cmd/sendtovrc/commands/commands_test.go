package commands

import (
	"bytes"
	"testing"

	"github.com/alecthomas/kingpin/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/sendtovrc/internal/printer"
)

func TestSettingsCommandsParse(t *testing.T) {
	tests := map[string]struct {
		args     []string
		expCmd   string
		expKey   string
		expValue string
		expFile  string
		expErr   bool
	}{
		"Setting a known key should parse the key and value.": {
			args:     []string{"settings", "set", "uploader_url_base", "https://example.com"},
			expCmd:   "settings set",
			expKey:   "uploader_url_base",
			expValue: "https://example.com",
		},
		"Getting a known key should parse the key.": {
			args:   []string{"settings", "get", "uploader_api_key"},
			expCmd: "settings get",
			expKey: "uploader_api_key",
		},
		"Importing should parse the file.": {
			args:    []string{"settings", "import", "settings.yaml"},
			expCmd:  "settings import",
			expFile: "settings.yaml",
		},
		"An unknown key should fail.": {
			args:   []string{"settings", "get", "wrong_key"},
			expErr: true,
		},
		"Setting without value should fail.": {
			args:   []string{"settings", "set", "uploader_api_key"},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			app := kingpin.New("test", "")
			root := NewRootCommand(app)
			parent := NewSettingsCommand(app)
			cmds := map[string]*SettingsCommand{}
			for _, c := range []*SettingsCommand{
				NewSettingsListCommand(root, parent),
				NewSettingsGetCommand(root, parent),
				NewSettingsSetCommand(root, parent),
				NewSettingsImportCommand(root, parent),
			} {
				cmds[c.Name()] = c
			}

			cmdName, err := app.Parse(test.args)
			if test.expErr {
				assert.Error(err)
				return
			}
			require.NoError(err)

			assert.Equal(test.expCmd, cmdName)
			c := cmds[cmdName]
			require.NotNil(c)
			assert.Equal(test.expKey, c.key)
			assert.Equal(test.expValue, c.value)
			assert.Equal(test.expFile, c.file)
			assert.Equal(formatTable, c.format)
		})
	}
}

func TestSendCommandParse(t *testing.T) {
	tests := map[string]struct {
		args           []string
		expTo          string
		expNoClipboard bool
		expAttempts    int
		expFormat      string
		expErr         bool
	}{
		"Defaults should be applied.": {
			args:        []string{"send", "capture.png", "--to", "video"},
			expTo:       "video",
			expAttempts: 3,
			expFormat:   formatTable,
		},
		"Flags should be parsed.": {
			args:           []string{"send", "capture.png", "-t", "print", "--no-clipboard", "--max-attempts", "5", "--format", "json"},
			expTo:          "print",
			expNoClipboard: true,
			expAttempts:    5,
			expFormat:      formatJSON,
		},
		"A missing destination should fail.": {
			args:   []string{"send", "capture.png"},
			expErr: true,
		},
		"An unknown format should fail.": {
			args:   []string{"send", "capture.png", "--to", "video", "--format", "yaml"},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			app := kingpin.New("test", "")
			c := NewSendCommand(NewRootCommand(app), app)

			_, err := app.Parse(test.args)
			if test.expErr {
				assert.Error(err)
				return
			}
			require.NoError(err)

			assert.Equal("capture.png", c.file)
			assert.Equal(test.expTo, c.destination)
			assert.Equal(test.expNoClipboard, c.noClipboard)
			assert.Equal(test.expAttempts, c.maxAttempts)
			assert.Equal(test.expFormat, c.format)
		})
	}
}

func TestRootCommandDBPathEnv(t *testing.T) {
	t.Setenv("SENDTOVRC_DB_PATH", "/tmp/custom.db")

	app := kingpin.New("test", "")
	root := NewRootCommand(app)
	NewWhoamiCommand(root, app)

	_, err := app.Parse([]string{"whoami"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", root.DBPath)
}

func TestRootCommandPrinter(t *testing.T) {
	root := &RootCommand{Stdout: &bytes.Buffer{}}

	assert.IsType(t, &printer.JSONPrinter{}, root.printer(formatJSON))
	assert.IsType(t, &printer.TablePrinter{}, root.printer(formatTable))
}
