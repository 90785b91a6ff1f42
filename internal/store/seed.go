package store

import (
	"context"
	"database/sql"

	"github.com/cayden0207/ctg-talents/internal/domain"
)

// SeedIfEmpty bootstraps a fresh database with an HQ admin, two JVs with one
// partner each, and a couple of pool candidates. No-op once an admin exists.
func SeedIfEmpty(ctx context.Context, db *sql.DB, passwordHash string) (bool, error) {
	admins, err := CountUsersByRole(ctx, db, domain.RoleHQAdmin)
	if err != nil {
		return false, err
	}
	if admins > 0 {
		return false, nil
	}

	admin := &domain.User{Email: "admin@hq.com", Role: domain.RoleHQAdmin, PasswordHash: passwordHash}
	if err := CreateUser(ctx, db, admin); err != nil {
		return false, err
	}

	for _, jvSeed := range []struct {
		jv      string
		partner string
	}{
		{"TechCorp", "partner@techcorp.com"},
		{"SalesForce", "partner@salesforce.com"},
	} {
		jv := &domain.JV{Name: jvSeed.jv}
		if err := CreateJV(ctx, db, jv); err != nil {
			return false, err
		}
		partner := &domain.User{
			Email:        jvSeed.partner,
			Role:         domain.RoleJVPartner,
			JvID:         &jv.ID,
			PasswordHash: passwordHash,
		}
		if err := CreateUser(ctx, db, partner); err != nil {
			return false, err
		}
	}

	seedCandidates := []*domain.Candidate{
		{
			Name:           "Alice Wong",
			Email:          "alice@example.com",
			FunctionRole:   "Product Manager",
			Status:         domain.StatusReady,
			Tags:           []string{"Product", "SaaS"},
			InterviewNotes: "Strong cross-functional experience",
		},
		{
			Name:           "Ben Tan",
			Email:          "ben@example.com",
			FunctionRole:   "Sales Lead",
			Status:         domain.StatusInterviewing,
			Tags:           []string{"Sales", "APAC"},
			InterviewNotes: "Need comp alignment",
		},
	}
	for _, c := range seedCandidates {
		if err := CreateCandidate(ctx, db, c); err != nil {
			return false, err
		}
	}

	return true, nil
}
