package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/reelpay/internal/metrics"
	"github.com/maheshrc27/reelpay/internal/models"
	"github.com/maheshrc27/reelpay/internal/repository"
	"github.com/maheshrc27/reelpay/internal/transfer"
	"github.com/maheshrc27/reelpay/pkg/errutil"
	"github.com/shopspring/decimal"
)

// ClaimMinimum is the unclaimed balance a referrer must exceed to file a claim.
var ClaimMinimum = decimal.NewFromInt(100)

type ClaimService interface {
	Create(ctx context.Context, referrerID int64) (*transfer.ClaimCreated, error)
	Resolve(ctx context.Context, claimID, approverID int64, decision, reason string) (*models.ReferralClaim, error)
	Summary(ctx context.Context, referrerID int64) (*transfer.ReferralSummary, error)
}

type claimService struct {
	re  repository.ReferralEarningRepository
	rc  repository.ReferralClaimRepository
	tx  repository.TxManager
	m   *metrics.Metrics
	now func() time.Time
}

func NewClaimService(
	re repository.ReferralEarningRepository,
	rc repository.ReferralClaimRepository,
	tx repository.TxManager,
	m *metrics.Metrics) ClaimService {
	return &claimService{
		re:  re,
		rc:  rc,
		tx:  tx,
		m:   m,
		now: time.Now,
	}
}

func (s *claimService) Create(ctx context.Context, referrerID int64) (*transfer.ClaimCreated, error) {
	var created *transfer.ClaimCreated

	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := s.tx.AdvisoryLock(ctx, tx, referrerID); err != nil {
			return err
		}

		unclaimed, err := s.re.SumUnclaimed(ctx, tx, referrerID)
		if err != nil {
			return err
		}
		if !unclaimed.GreaterThan(ClaimMinimum) {
			return errutil.Conflict(fmt.Sprintf("unclaimed amount %s must exceed %s", unclaimed.StringFixed(2), ClaimMinimum.StringFixed(2)))
		}

		pending, err := s.rc.HasPending(ctx, tx, referrerID)
		if err != nil {
			return err
		}
		if pending {
			return errutil.Conflict("a claim is already pending")
		}

		claim := &models.ReferralClaim{
			ReferrerID:      referrerID,
			Status:          models.ClaimStatusPending,
			RequestedAmount: unclaimed,
			RequestedAt:     s.now(),
		}
		id, err := s.rc.Create(ctx, tx, claim)
		if err != nil {
			if isUniqueViolation(err) {
				return errutil.Conflict("a claim is already pending")
			}
			return err
		}

		created = &transfer.ClaimCreated{
			ClaimID:         id,
			RequestDate:     claim.RequestedAt,
			RequestedAmount: unclaimed,
		}
		return nil
	})
	if err != nil {
		return nil, asClaimError("failed to create claim", err)
	}

	s.m.Claims.WithLabelValues(models.ClaimStatusPending).Inc()
	return created, nil
}

// Resolve approves or rejects a pending claim. Approval settles every
// outstanding earning row of the referrer in the same transaction.
func (s *claimService) Resolve(ctx context.Context, claimID, approverID int64, decision, reason string) (*models.ReferralClaim, error) {
	if decision != models.ClaimStatusApproved && decision != models.ClaimStatusRejected {
		return nil, errutil.Validation("status must be approved or rejected")
	}
	reason = strings.TrimSpace(reason)
	if decision == models.ClaimStatusRejected && reason == "" {
		return nil, errutil.Validation("rejection reason is required")
	}

	var resolved *models.ReferralClaim

	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := s.tx.LockRow(ctx, tx, "referral_claims", claimID); err != nil {
			if errors.Is(err, repository.ErrRowNotFound) {
				return errutil.NotFound("claim not found")
			}
			return err
		}

		claim, found, err := s.rc.GetByID(ctx, tx, claimID)
		if err != nil {
			return err
		}
		if !found {
			return errutil.NotFound("claim not found")
		}
		if claim.Status != models.ClaimStatusPending {
			return errutil.Conflict("claim is not pending")
		}

		now := s.now()
		claim.Status = decision
		claim.ApprovedAt = &now
		claim.ApprovedBy = &approverID

		if decision == models.ClaimStatusRejected {
			claim.RejectionReason = &reason
		} else {
			if _, err := s.re.MarkClaimed(ctx, tx, claim.ReferrerID); err != nil {
				return err
			}
		}

		if err := s.rc.Resolve(ctx, tx, claim); err != nil {
			return err
		}
		resolved = claim
		return nil
	})
	if err != nil {
		return nil, asClaimError("failed to resolve claim", err)
	}

	s.m.Claims.WithLabelValues(decision).Inc()
	return resolved, nil
}

func (s *claimService) Summary(ctx context.Context, referrerID int64) (*transfer.ReferralSummary, error) {
	unclaimed, err := s.re.SumUnclaimed(ctx, nil, referrerID)
	if err != nil {
		return nil, err
	}

	claims, err := s.rc.ListByReferrer(ctx, referrerID)
	if err != nil {
		return nil, err
	}
	if claims == nil {
		claims = []*models.ReferralClaim{}
	}

	return &transfer.ReferralSummary{Unclaimed: unclaimed, Claims: claims}, nil
}

// asClaimError keeps typed errors raised inside the transaction and reports
// anything else as an aborted transaction.
func asClaimError(msg string, err error) error {
	if errutil.KindOf(err) != "" {
		return err
	}
	return errutil.TransactionAborted(msg, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
