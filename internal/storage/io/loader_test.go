package io

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/sendtovrc/internal/model"
)

func TestSettingsYAMLRepository_GetSettings(t *testing.T) {
	tests := map[string]struct {
		fs          fstest.MapFS
		path        string
		expSettings map[string]string
		expErr      bool
		errMsg      string
	}{
		"Full settings should load successfully": {
			fs: fstest.MapFS{
				"settings.yaml": &fstest.MapFile{
					Data: []byte(`uploader:
  api_key: key-1
  url_base: https://upload.example.com
  copy_after_upload: false
vrchat:
  auth_cookie: authcookie_1
`),
				},
			},
			path: "settings.yaml",
			expSettings: map[string]string{
				model.SettingUploaderAPIKey:        "key-1",
				model.SettingUploaderBaseURL:       "https://upload.example.com",
				model.SettingShouldCopyAfterUpload: "false",
				model.SettingVRChatAuthCookie:      "authcookie_1",
			},
		},
		"Partial settings should only return the set fields": {
			fs: fstest.MapFS{
				"settings.yaml": &fstest.MapFile{
					Data: []byte(`uploader:
  api_key: key-1
`),
				},
			},
			path: "settings.yaml",
			expSettings: map[string]string{
				model.SettingUploaderAPIKey: "key-1",
			},
		},
		"Empty settings should load successfully": {
			fs: fstest.MapFS{
				"empty.yaml": &fstest.MapFile{
					Data: []byte(`---
`),
				},
			},
			path:        "empty.yaml",
			expSettings: map[string]string{},
		},
		"Missing file should fail": {
			fs:     fstest.MapFS{},
			path:   "missing.yaml",
			expErr: true,
			errMsg: "reading settings file",
		},
		"Invalid YAML should fail": {
			fs: fstest.MapFS{
				"bad.yaml": &fstest.MapFile{
					Data: []byte(`uploader: [`),
				},
			},
			path:   "bad.yaml",
			expErr: true,
			errMsg: "parsing YAML",
		},
		"Non http URL base should fail": {
			fs: fstest.MapFS{
				"settings.yaml": &fstest.MapFile{
					Data: []byte(`uploader:
  url_base: ftp://upload.example.com
`),
				},
			},
			path:   "settings.yaml",
			expErr: true,
			errMsg: "must be an http(s) URL",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			repo := NewSettingsYAMLRepository(test.fs)
			gotSettings, err := repo.GetSettings(context.Background(), test.path)

			if test.expErr {
				require.Error(err)
				assert.Contains(err.Error(), test.errMsg)
			} else {
				require.NoError(err)
				assert.Equal(test.expSettings, gotSettings)
			}
		})
	}
}
