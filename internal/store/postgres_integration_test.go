// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

//go:build integration

package store_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/notisblokk/notisblokk/internal/accounts"
	accountspg "github.com/notisblokk/notisblokk/internal/accounts/postgres"
	"github.com/notisblokk/notisblokk/internal/auth"
	authpg "github.com/notisblokk/notisblokk/internal/auth/postgres"
	"github.com/notisblokk/notisblokk/internal/notes"
	notespg "github.com/notisblokk/notisblokk/internal/notes/postgres"
	"github.com/notisblokk/notisblokk/internal/store"
)

// setupPostgres starts a PostgreSQL container, opens a pool and applies
// all migrations.
func setupPostgres() (*pgxpool.Pool, func(), error) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("notisblokk_test"),
		postgres.WithUsername("notisblokk"),
		postgres.WithPassword("notisblokk"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, nil, err
	}

	migrator, err := store.NewMigrator(connStr)
	if err != nil {
		return nil, nil, err
	}
	if err := migrator.Up(); err != nil {
		return nil, nil, err
	}
	if err := migrator.Close(); err != nil {
		return nil, nil, err
	}

	pool, err := store.Open(ctx, connStr)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		pool.Close()
		_ = container.Terminate(ctx)
	}

	return pool, cleanup, nil
}

var _ = Describe("PostgreSQL repositories", func() {
	var (
		pool    *pgxpool.Pool
		cleanup func()

		accountSvc *accounts.Service
		gateway    *auth.Service
		noteSvc    *notes.Service
	)

	BeforeEach(func() {
		var err error
		pool, cleanup, err = setupPostgres()
		Expect(err).NotTo(HaveOccurred())

		hasher := auth.NewArgon2idHasher()
		accountRepo := accountspg.NewAccountRepository(pool)
		sessionRepo := authpg.NewSessionRepository(pool)

		accountSvc, err = accounts.NewService(accountRepo, hasher)
		Expect(err).NotTo(HaveOccurred())

		sessions, err := auth.NewSessionStore(sessionRepo)
		Expect(err).NotTo(HaveOccurred())

		gateway, err = auth.NewService(accountRepo, sessions, hasher)
		Expect(err).NotTo(HaveOccurred())

		noteSvc, err = notes.NewService(
			notespg.NewTagRepository(pool),
			notespg.NewStatusRepository(pool),
			notespg.NewNoteRepository(pool),
		)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		cleanup()
	})

	Describe("account lifecycle", func() {
		It("registers, authenticates and deactivates an account", func() {
			ctx := context.Background()

			summary, err := accountSvc.Register(ctx, "Kari", "kari@example.com", "12345678", "secret1")
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Email).To(Equal("kari@example.com"))

			result, err := gateway.Login(ctx, "kari@example.com", "secret1")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Token).NotTo(BeEmpty())

			verified, err := gateway.VerifySession(ctx, result.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(verified.ID).To(Equal(summary.ID))

			Expect(gateway.Logout(ctx, result.Token)).To(Succeed())
			_, err = gateway.VerifySession(ctx, result.Token)
			Expect(err).To(HaveOccurred())

			Expect(accountSvc.Deactivate(ctx, summary.ID)).To(Succeed())
			_, err = gateway.Login(ctx, "kari@example.com", "secret1")
			Expect(err).To(HaveOccurred())
		})

		It("rejects duplicate emails case-insensitively", func() {
			ctx := context.Background()

			_, err := accountSvc.Register(ctx, "Kari", "kari@example.com", "", "secret1")
			Expect(err).NotTo(HaveOccurred())

			_, err = accountSvc.Register(ctx, "Other", "KARI@example.com", "", "secret2")
			Expect(err).To(MatchError(accounts.ErrEmailTaken))
		})

		It("rejects wrong passwords", func() {
			ctx := context.Background()

			_, err := accountSvc.Register(ctx, "Kari", "kari@example.com", "", "secret1")
			Expect(err).NotTo(HaveOccurred())

			_, err = gateway.Login(ctx, "kari@example.com", "wrong")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("notes", func() {
		It("runs tags, statuses and notes through a full cycle", func() {
			ctx := context.Background()

			tag, err := noteSvc.CreateTag(ctx, "Infra")
			Expect(err).NotTo(HaveOccurred())

			status, err := noteSvc.CreateStatus(ctx, "Pending", "#FFA500")
			Expect(err).NotTo(HaveOccurred())

			due := time.Now().AddDate(0, 0, 3)
			detail, err := noteSvc.CreateNote(ctx, tag.ID, status.ID, "Renew certificate", "wildcard", due)
			Expect(err).NotTo(HaveOccurred())
			Expect(detail.TagName).To(Equal("Infra"))
			Expect(detail.StatusName).To(Equal("Pending"))
			Expect(detail.DaysRemaining).To(Equal(3))

			// The status is referenced, so it cannot be deleted.
			err = noteSvc.DeleteStatus(ctx, status.ID)
			Expect(err).To(MatchError(notes.ErrStatusInUse))

			// Deleting the tag cascades to the note.
			Expect(noteSvc.DeleteTag(ctx, tag.ID)).To(Succeed())
			_, err = noteSvc.GetNote(ctx, detail.ID)
			Expect(err).To(MatchError(notes.ErrNotFound))

			// With the note gone the status deletes cleanly.
			Expect(noteSvc.DeleteStatus(ctx, status.ID)).To(Succeed())
		})

		It("lists notes ordered by due date", func() {
			ctx := context.Background()

			tag, err := noteSvc.CreateTag(ctx, "Infra")
			Expect(err).NotTo(HaveOccurred())
			status, err := noteSvc.CreateStatus(ctx, "Pending", "#FFA500")
			Expect(err).NotTo(HaveOccurred())

			_, err = noteSvc.CreateNote(ctx, tag.ID, status.ID, "later", "", time.Now().AddDate(0, 0, 10))
			Expect(err).NotTo(HaveOccurred())
			_, err = noteSvc.CreateNote(ctx, tag.ID, status.ID, "sooner", "", time.Now().AddDate(0, 0, 1))
			Expect(err).NotTo(HaveOccurred())

			all, err := noteSvc.ListNotes(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))
			Expect(all[0].Title).To(Equal("sooner"))
			Expect(all[1].Title).To(Equal("later"))
		})
	})

	Describe("session sweep", func() {
		It("removes only expired rows", func() {
			ctx := context.Background()

			summary, err := accountSvc.Register(ctx, "Kari", "kari@example.com", "", "secret1")
			Expect(err).NotTo(HaveOccurred())

			sessionRepo := authpg.NewSessionRepository(pool)
			sessions, err := auth.NewSessionStore(sessionRepo)
			Expect(err).NotTo(HaveOccurred())

			token, _, err := sessions.Issue(ctx, summary.ID)
			Expect(err).NotTo(HaveOccurred())

			// Plant an already-expired session directly.
			_, hash, err := auth.GenerateSessionToken()
			Expect(err).NotTo(HaveOccurred())
			stale, err := auth.NewSession(summary.ID, hash)
			Expect(err).NotTo(HaveOccurred())
			stale.CreatedAt = stale.CreatedAt.Add(-2 * auth.SessionTokenTTL)
			stale.ExpiresAt = stale.ExpiresAt.Add(-2 * auth.SessionTokenTTL)
			Expect(sessionRepo.Create(ctx, stale)).To(Succeed())

			count, err := sessions.Sweep(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))

			// The live session survives the sweep.
			_, err = sessions.Validate(ctx, token)
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
