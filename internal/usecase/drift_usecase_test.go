package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/gigsy2025/gigsy-reconciler/internal/domain"
	"github.com/gigsy2025/gigsy-reconciler/internal/usecase"
	"github.com/gigsy2025/gigsy-reconciler/internal/usecase/mocks"
)

func TestDetectDrift(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	ledgerRepo.EXPECT().GetWalletTransactions(gomock.Any(), "w1").Return([]*domain.Transaction{
		{ID: "t1", WalletID: "w1", Currency: "USD", Amount: decimal.NewFromInt(500)},
		{ID: "t2", WalletID: "w1", Currency: "USD", Amount: decimal.NewFromInt(-200)},
	}, nil)

	projectionRepo := mocks.NewMockProjectionRepository(ctrl)
	projectionRepo.EXPECT().GetBalance(gomock.Any(), "w1").Return(&domain.BalanceProjection{
		WalletID: "w1",
		Currency: "USD",
		Balance:  decimal.NewFromInt(250),
	}, nil)

	detector := usecase.NewDriftDetector(ledgerRepo, projectionRepo)

	report, err := detector.DetectDrift(context.Background(), "w1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.LedgerBalance.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected ledger balance 300, got %s", report.LedgerBalance)
	}
	if !report.ProjectionBalance.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected projection balance 250, got %s", report.ProjectionBalance)
	}
	if !report.Drift.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected drift 50, got %s", report.Drift)
	}
	if report.EntryCount != 2 {
		t.Fatalf("expected 2 entries, got %d", report.EntryCount)
	}
}

func TestDetectDrift_MissingProjectionMeansZero(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	ledgerRepo.EXPECT().GetWalletTransactions(gomock.Any(), "w1").Return([]*domain.Transaction{
		{ID: "t1", WalletID: "w1", Currency: "USD", Amount: decimal.NewFromInt(120)},
	}, nil)

	projectionRepo := mocks.NewMockProjectionRepository(ctrl)
	projectionRepo.EXPECT().GetBalance(gomock.Any(), "w1").Return(nil, nil)

	detector := usecase.NewDriftDetector(ledgerRepo, projectionRepo)

	report, err := detector.DetectDrift(context.Background(), "w1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.ProjectionBalance.IsZero() {
		t.Fatalf("missing projection must read as zero, got %s", report.ProjectionBalance)
	}
	if !report.Drift.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected drift 120, got %s", report.Drift)
	}
}

func TestDetectDrift_NegativeDriftIsAbsolute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	ledgerRepo.EXPECT().GetWalletTransactions(gomock.Any(), "w1").Return([]*domain.Transaction{
		{ID: "t1", WalletID: "w1", Currency: "USD", Amount: decimal.NewFromInt(100)},
	}, nil)

	projectionRepo := mocks.NewMockProjectionRepository(ctrl)
	projectionRepo.EXPECT().GetBalance(gomock.Any(), "w1").Return(&domain.BalanceProjection{
		WalletID: "w1",
		Currency: "USD",
		Balance:  decimal.NewFromInt(180),
	}, nil)

	detector := usecase.NewDriftDetector(ledgerRepo, projectionRepo)

	report, err := detector.DetectDrift(context.Background(), "w1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Drift.IsNegative() {
		t.Fatalf("drift must never be negative, got %s", report.Drift)
	}
	if !report.Drift.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected drift 80, got %s", report.Drift)
	}
}

func TestDetectDrift_LedgerErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	ledgerRepo.EXPECT().GetWalletTransactions(gomock.Any(), "w1").Return(nil, errors.New("boom"))

	projectionRepo := mocks.NewMockProjectionRepository(ctrl)

	detector := usecase.NewDriftDetector(ledgerRepo, projectionRepo)

	if _, err := detector.DetectDrift(context.Background(), "w1"); err == nil {
		t.Fatal("expected ledger read error to propagate")
	}
}

func TestDetectDrift_ProjectionErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	ledgerRepo.EXPECT().GetWalletTransactions(gomock.Any(), "w1").Return(nil, nil)

	projectionRepo := mocks.NewMockProjectionRepository(ctrl)
	projectionRepo.EXPECT().GetBalance(gomock.Any(), "w1").Return(nil, errors.New("boom"))

	detector := usecase.NewDriftDetector(ledgerRepo, projectionRepo)

	if _, err := detector.DetectDrift(context.Background(), "w1"); err == nil {
		t.Fatal("expected projection read error to propagate")
	}
}
