package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/undead-arena/internal/checkpoint"
	checkpointmock "github.com/KirkDiggler/undead-arena/internal/checkpoint/mock"
	"github.com/KirkDiggler/undead-arena/internal/engine"
	"github.com/KirkDiggler/undead-arena/internal/errors"
	"github.com/KirkDiggler/undead-arena/internal/orchestrators/settlement"
	settlementmock "github.com/KirkDiggler/undead-arena/internal/orchestrators/settlement/mock"
	"github.com/KirkDiggler/undead-arena/internal/pkg/clock"
	"github.com/KirkDiggler/undead-arena/internal/testutils"
	"github.com/KirkDiggler/undead-arena/internal/worker"
)

type WorkerTestSuite struct {
	suite.Suite
	ctx        context.Context
	ctrl       *gomock.Controller
	settlement *settlementmock.MockService
	archive    *checkpointmock.MockArchive
	clock      *clock.Manual
	cfg        *worker.Config
}

func TestWorkerSuite(t *testing.T) {
	suite.Run(t, new(WorkerTestSuite))
}

func (s *WorkerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.settlement = settlementmock.NewMockService(s.ctrl)
	s.archive = checkpointmock.NewMockArchive(s.ctrl)
	s.clock = clock.NewManual(time.Unix(testutils.TestCreatedAt, 0))

	s.cfg = &worker.Config{
		Settlement:       s.settlement,
		Archive:          s.archive,
		Clock:            s.clock,
		SweepInterval:    time.Hour,
		SweepLimit:       5,
		PruneInterval:    time.Hour,
		ArchiveRetention: 24 * time.Hour,
	}
}

func (s *WorkerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *WorkerTestSuite) newWorker() *worker.Worker {
	w, err := worker.New(s.cfg)
	s.Require().NoError(err)
	return w
}

func (s *WorkerTestSuite) TestNewValidation() {
	testCases := []struct {
		name   string
		mutate func(cfg *worker.Config)
	}{
		{name: "missing settlement", mutate: func(cfg *worker.Config) { cfg.Settlement = nil }},
		{name: "missing clock", mutate: func(cfg *worker.Config) { cfg.Clock = nil }},
		{name: "zero sweep interval", mutate: func(cfg *worker.Config) { cfg.SweepInterval = 0 }},
		{name: "negative sweep limit", mutate: func(cfg *worker.Config) { cfg.SweepLimit = -1 }},
		{name: "archive without retention", mutate: func(cfg *worker.Config) { cfg.ArchiveRetention = 0 }},
		{name: "archive without prune interval", mutate: func(cfg *worker.Config) { cfg.PruneInterval = 0 }},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			cfg := *s.cfg
			tc.mutate(&cfg)
			_, err := worker.New(&cfg)
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
		})
	}

	s.Run("archive settings ignored without archive", func() {
		cfg := *s.cfg
		cfg.Archive = nil
		cfg.PruneInterval = 0
		cfg.ArchiveRetention = 0
		_, err := worker.New(&cfg)
		s.NoError(err)
	})
}

func (s *WorkerTestSuite) TestSweep() {
	expected := &settlement.SettlePendingOutput{
		Settled: []*engine.SettleOutput{{Winner: "alice", Loser: "bob"}},
	}
	s.settlement.EXPECT().
		SettlePending(s.ctx, &settlement.SettlePendingInput{Limit: 5}).
		Return(expected, nil)

	out, err := s.newWorker().Sweep(s.ctx)
	s.Require().NoError(err)
	s.Equal(expected, out)
}

func (s *WorkerTestSuite) TestSweepError() {
	s.settlement.EXPECT().
		SettlePending(s.ctx, gomock.Any()).
		Return(nil, errors.Unavailable("redis down"))

	_, err := s.newWorker().Sweep(s.ctx)
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))
}

func (s *WorkerTestSuite) TestPruneUsesRetentionCutoff() {
	cutoff := testutils.TestCreatedAt - int64((24 * time.Hour).Seconds())
	s.archive.EXPECT().
		Prune(s.ctx, checkpoint.PruneInput{Before: cutoff}).
		Return(&checkpoint.PruneOutput{Deleted: 3}, nil)

	out, err := s.newWorker().Prune(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(3), out.Deleted)
}

func (s *WorkerTestSuite) TestPruneWithoutArchive() {
	s.cfg.Archive = nil

	out, err := s.newWorker().Prune(s.ctx)
	s.Require().NoError(err)
	s.Zero(out.Deleted)
}

func (s *WorkerTestSuite) TestStartRunsSweepImmediately() {
	swept := make(chan struct{}, 1)
	s.settlement.EXPECT().
		SettlePending(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *settlement.SettlePendingInput) (*settlement.SettlePendingOutput, error) {
			select {
			case swept <- struct{}{}:
			default:
			}
			return &settlement.SettlePendingOutput{}, nil
		}).
		MinTimes(1)
	s.archive.EXPECT().Prune(gomock.Any(), gomock.Any()).Return(&checkpoint.PruneOutput{}, nil).AnyTimes()

	w := s.newWorker()
	s.Require().NoError(w.Start(s.ctx))

	select {
	case <-swept:
	case <-time.After(5 * time.Second):
		s.Fail("sweep did not run after start")
	}

	err := w.Start(s.ctx)
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))

	s.Require().NoError(w.Stop())
	s.Require().NoError(w.Stop())
}
