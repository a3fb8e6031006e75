package payments

import (
	"context"
	"math/rand"
	"sync"
	"time"

	pkgerrors "github.com/angelmondragon/ecodott-storefront/pkg/errors"
	"github.com/angelmondragon/ecodott-storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

type InitiateRequest struct {
	TransactionID string
	Amount        decimal.Decimal
}

type Initiation struct {
	TransactionID string
	DeepLink      string
	Amount        decimal.Decimal
	Merchant      Merchant
}

type Verification struct {
	TransactionID string
	Approved      bool
}

// Gateway starts and verifies UPI payments.
type Gateway interface {
	Initiate(ctx context.Context, req InitiateRequest) (Initiation, error)
	Verify(ctx context.Context, transactionID string) (Verification, error)
}

// OutcomeSource yields values in [0, 1). *rand.Rand satisfies it.
type OutcomeSource interface {
	Float64() float64
}

// SimulatedGateway approves a fixed share of verifications at random. No money moves.
type SimulatedGateway struct {
	mu          sync.Mutex
	merchant    Merchant
	successRate float64
	source      OutcomeSource
	initiated   map[string]decimal.Decimal
	logg        *logger.Logger
}

var _ Gateway = (*SimulatedGateway)(nil)

func NewSimulatedGateway(merchant Merchant, successRate float64, source OutcomeSource, logg *logger.Logger) *SimulatedGateway {
	if source == nil {
		source = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &SimulatedGateway{
		merchant:    merchant,
		successRate: successRate,
		source:      source,
		initiated:   make(map[string]decimal.Decimal),
		logg:        logg,
	}
}

func (g *SimulatedGateway) Initiate(ctx context.Context, req InitiateRequest) (Initiation, error) {
	if req.TransactionID == "" {
		return Initiation{}, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	if !req.Amount.IsPositive() {
		return Initiation{}, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	g.mu.Lock()
	g.initiated[req.TransactionID] = req.Amount
	g.mu.Unlock()

	link := DeepLink(g.merchant, req.TransactionID, req.Amount)
	g.logg.Info(g.logg.WithField(ctx, "transaction_id", req.TransactionID), "upi payment initiated")
	return Initiation{
		TransactionID: req.TransactionID,
		DeepLink:      link,
		Amount:        req.Amount,
		Merchant:      g.merchant,
	}, nil
}

func (g *SimulatedGateway) Verify(ctx context.Context, transactionID string) (Verification, error) {
	g.mu.Lock()
	_, ok := g.initiated[transactionID]
	if !ok {
		g.mu.Unlock()
		return Verification{}, pkgerrors.New(pkgerrors.CodeNotFound, "unknown transaction")
	}
	// Only known transactions draw from the source.
	roll := g.source.Float64()
	delete(g.initiated, transactionID)
	g.mu.Unlock()

	approved := roll < g.successRate
	g.logg.Info(g.logg.WithFields(ctx, map[string]any{"transaction_id": transactionID, "approved": approved}), "upi payment verified")
	return Verification{TransactionID: transactionID, Approved: approved}, nil
}
