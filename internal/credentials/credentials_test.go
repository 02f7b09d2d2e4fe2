package credentials_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/sendtovrc/internal/credentials"
	"github.com/slok/sendtovrc/internal/model"
	"github.com/slok/sendtovrc/internal/storage/memory"
)

func newService(t *testing.T, seed map[string]string) (*credentials.Service, *memory.Repository) {
	t.Helper()

	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)
	for k, v := range seed {
		require.NoError(t, repo.SetSetting(context.Background(), k, v))
	}

	svc, err := credentials.NewService(credentials.ServiceConfig{Repository: repo})
	require.NoError(t, err)

	return svc, repo
}

func TestServiceCredentials(t *testing.T) {
	tests := map[string]struct {
		seed     map[string]string
		dest     model.Destination
		expCreds *model.Credentials
		expErr   error
	}{
		"Uploader destinations without API key should fail with not found.": {
			dest:   model.DestinationVideoPlayer,
			expErr: model.ErrNotFound,
		},

		"Uploader destinations with API key should use the default base URL.": {
			seed:     map[string]string{model.SettingUploaderAPIKey: "key"},
			dest:     model.DestinationImageViewer,
			expCreds: &model.Credentials{APIKey: "key", BaseURL: model.DefaultUploaderBaseURL},
		},

		"Uploader destinations with a custom base URL should use it.": {
			seed: map[string]string{
				model.SettingUploaderAPIKey:  "key",
				model.SettingUploaderBaseURL: "https://upload.test",
			},
			dest:     model.DestinationVideoPlayer,
			expCreds: &model.Credentials{APIKey: "key", BaseURL: "https://upload.test"},
		},

		"Print without session should fail with not found.": {
			seed:   map[string]string{model.SettingUploaderAPIKey: "key"},
			dest:   model.DestinationVRChatPrint,
			expErr: model.ErrNotFound,
		},

		"Print with session should return the cookie.": {
			seed:     map[string]string{model.SettingVRChatAuthCookie: "authcookie_1"},
			dest:     model.DestinationVRChatPrint,
			expCreds: &model.Credentials{APIKey: "authcookie_1"},
		},

		"Unknown destinations should fail.": {
			dest:   model.Destination("fax"),
			expErr: model.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			svc, _ := newService(t, test.seed)

			gotCreds, err := svc.Credentials(context.Background(), test.dest)

			if test.expErr != nil {
				assert.ErrorIs(t, err, test.expErr)
			} else if assert.NoError(t, err) {
				assert.Equal(t, test.expCreds, gotCreds)
			}
		})
	}
}

func TestServiceShouldCopyAfterUpload(t *testing.T) {
	tests := map[string]struct {
		seed    map[string]string
		expCopy bool
		expErr  bool
	}{
		"By default it should copy.": {
			expCopy: true,
		},

		"Disabled should not copy.": {
			seed:    map[string]string{model.SettingShouldCopyAfterUpload: "false"},
			expCopy: false,
		},

		"Invalid values should fail.": {
			seed:   map[string]string{model.SettingShouldCopyAfterUpload: "maybe"},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			svc, _ := newService(t, test.seed)

			gotCopy, err := svc.ShouldCopyAfterUpload(context.Background())

			if test.expErr {
				assert.ErrorIs(t, err, model.ErrNotValid)
			} else if assert.NoError(t, err) {
				assert.Equal(t, test.expCopy, gotCopy)
			}
		})
	}
}

func TestServiceWritesAreVisibleWithoutRefresh(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t, nil)

	_, err := svc.Uploader(ctx)
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, svc.SetUploaderAPIKey(ctx, "key"))
	creds, err := svc.Uploader(ctx)
	require.NoError(t, err)
	assert.Equal(t, "key", creds.APIKey)

	require.NoError(t, svc.SetAuthCookie(ctx, "authcookie_1"))
	cookie, err := svc.AuthCookie(ctx)
	require.NoError(t, err)
	assert.Equal(t, "authcookie_1", cookie)

	require.NoError(t, svc.ClearAuthCookie(ctx))
	_, err = svc.Print(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)

	stored, err := repo.GetSetting(ctx, model.SettingUploaderAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "key", stored)
}

func TestServiceRefreshReloadsFromRepository(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t, map[string]string{model.SettingUploaderAPIKey: "old"})

	creds, err := svc.Uploader(ctx)
	require.NoError(t, err)
	assert.Equal(t, "old", creds.APIKey)

	// Changed behind the service back.
	require.NoError(t, repo.SetSetting(ctx, model.SettingUploaderAPIKey, "new"))
	creds, err = svc.Uploader(ctx)
	require.NoError(t, err)
	assert.Equal(t, "old", creds.APIKey)

	require.NoError(t, svc.Refresh(ctx))
	creds, err = svc.Uploader(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", creds.APIKey)
}

func TestServiceAll(t *testing.T) {
	svc, _ := newService(t, map[string]string{model.SettingUploaderAPIKey: "key"})

	got, err := svc.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		model.SettingUploaderAPIKey:        "key",
		model.SettingUploaderBaseURL:       model.DefaultUploaderBaseURL,
		model.SettingShouldCopyAfterUpload: "true",
		model.SettingVRChatAuthCookie:      "",
	}, got)

	err = svc.Set(context.Background(), "nope", "v")
	assert.ErrorIs(t, err, model.ErrNotValid)
}
