package commands

import (
	"context"
	"fmt"
	"sync"

	"github.com/slok/sendtovrc/internal/app/register"
	"github.com/slok/sendtovrc/internal/credentials"
	"github.com/slok/sendtovrc/internal/presenter/terminal"
	"github.com/slok/sendtovrc/internal/session"
	"github.com/slok/sendtovrc/internal/storage/sqlite"
	"github.com/slok/sendtovrc/internal/uploader"
	"github.com/slok/sendtovrc/internal/vrchat"
)

// appDeps are the dependencies shared by the commands that talk to the remote
// services.
type appDeps struct {
	repo     *sqlite.Repository
	creds    *credentials.Service
	uploader *uploader.Client
	vrchat   *vrchat.Client
	account  *vrchat.Session
	session  *session.Session
	register *register.Service
}

func newAppDeps(ctx context.Context, root *RootCommand) (*appDeps, error) {
	logger := root.Logger

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: root.DBPath,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}

	deps, err := wireAppDeps(repo, root)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}

	return deps, nil
}

func wireAppDeps(repo *sqlite.Repository, root *RootCommand) (*appDeps, error) {
	logger := root.Logger

	creds, err := credentials.NewService(credentials.ServiceConfig{Repository: repo, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("could not create credentials service: %w", err)
	}

	uploaderClient, err := uploader.NewClient(uploader.ClientConfig{Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("could not create uploader client: %w", err)
	}

	vrchatClient, err := vrchat.NewClient(vrchat.ClientConfig{BaseURL: root.VRChatURL, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("could not create vrchat client: %w", err)
	}

	account, err := vrchat.NewSession(vrchat.SessionConfig{Client: vrchatClient, Cookies: creds, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("could not create vrchat session: %w", err)
	}

	sess, err := session.New(session.Config{Authenticator: account, Refresher: creds, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("could not create session: %w", err)
	}

	reg, err := register.NewService(register.ServiceConfig{
		Registrar:   uploaderClient,
		Credentials: creds,
		Gate:        sess.RegisterGate,
		Logger:      logger,
	})
	if err != nil {
		sess.Close()
		return nil, fmt.Errorf("could not create register service: %w", err)
	}

	return &appDeps{
		repo:     repo,
		creds:    creds,
		uploader: uploaderClient,
		vrchat:   vrchatClient,
		account:  account,
		session:  sess,
		register: reg,
	}, nil
}

func (a *appDeps) Close() error {
	a.session.Close()
	return a.repo.Close()
}

// interactive runs fn while the terminal presenter answers the gates fn opens.
func (a *appDeps) interactive(ctx context.Context, root *RootCommand, fn func(ctx context.Context) error) error {
	p, err := terminal.NewPresenter(terminal.PresenterConfig{
		In:           root.Stdin,
		Out:          root.Stderr,
		NoColor:      root.NoColor,
		Register:     a.register,
		RegisterGate: a.session.RegisterGate,
		Login:        a.session.Login,
		LoginGate:    a.session.LoginGate,
		Logger:       root.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create presenter: %w", err)
	}

	pctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = p.Run(pctx)
	}()

	err = fn(ctx)
	cancel()
	wg.Wait()

	return err
}
