package service

import (
	"context"
	"strings"

	"petition/internal/models"
	"petition/internal/observability"
	"petition/internal/repository"
)

// PetitionService handles signing, signature deletion and the signer
// listings.
type PetitionService struct {
	users      repository.UserRepository
	signatures repository.SignatureRepository
}

// NewPetitionService returns a new PetitionService.
func NewPetitionService(users repository.UserRepository, signatures repository.SignatureRepository) *PetitionService {
	return &PetitionService{users: users, signatures: signatures}
}

// SignerName returns the full name rendered on the petition form.
func (s *PetitionService) SignerName(ctx context.Context, userID uint) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.FullName(), nil
}

// Sign inserts a signature for the user and returns the generated id. The
// unique constraint on sig.user_id rejects a second signature.
func (s *PetitionService) Sign(ctx context.Context, userID uint, payload string) (uint, error) {
	if strings.TrimSpace(payload) == "" {
		return 0, models.NewValidationError("Signature is required")
	}

	sig := &models.Signature{UserID: userID, Sig: payload}
	if err := s.signatures.Create(ctx, sig); err != nil {
		return 0, err
	}

	observability.SignaturesCreated.Inc()
	return sig.ID, nil
}

// DeleteSignature removes the user's signature row.
func (s *PetitionService) DeleteSignature(ctx context.Context, userID uint) error {
	if err := s.signatures.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	observability.SignaturesDeleted.Inc()
	return nil
}

// ThanksData returns the stored signature payload and the total signature
// count for the thanks page.
func (s *PetitionService) ThanksData(ctx context.Context, signatureID uint) (string, int64, error) {
	sig, err := s.signatures.GetByID(ctx, signatureID)
	if err != nil {
		return "", 0, err
	}

	count, err := s.signatures.Count(ctx)
	if err != nil {
		return "", 0, err
	}
	return sig.Sig, count, nil
}

// Signers returns all signers joined with their profiles.
func (s *PetitionService) Signers(ctx context.Context) ([]models.Signer, error) {
	return s.signatures.ListSigners(ctx)
}

// SignersByCity returns the signers whose profile city matches
// case-insensitively.
func (s *PetitionService) SignersByCity(ctx context.Context, city string) ([]models.Signer, error) {
	return s.signatures.ListSignersByCity(ctx, city)
}
