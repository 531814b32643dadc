// internal/services/role_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/guanl20/Blocktrust/internal/models"
	"github.com/guanl20/Blocktrust/internal/repository"
	"github.com/guanl20/Blocktrust/internal/utils"
)

// Capability names an operation gated by the role registry.
type Capability string

const (
	CapCreateProduct Capability = "create-product"
	CapTransfer      Capability = "transfer"
	CapUpdateStatus  Capability = "update-status"
	CapInspect       Capability = "inspect"
	CapManageRoles   Capability = "manage-roles"
	CapPause         Capability = "pause"
	CapAudit         Capability = "audit"
)

type RoleService struct {
	store  repository.Store
	writer *LedgerWriter
	now    func() time.Time
}

type RoleChangeRequest struct {
	Role    models.Role `json:"role" validate:"required,ledger_role"`
	Account string      `json:"account" validate:"required,account,max=128"`
}

type RegisterParticipantRequest struct {
	Account     string        `json:"account" validate:"required,account,max=128"`
	CompanyName string        `json:"company_name" validate:"required,max=255"`
	Password    string        `json:"password" validate:"omitempty,min=8,max=72"`
	Roles       []models.Role `json:"roles,omitempty" validate:"dive,ledger_role"`
}

func NewRoleService(store repository.Store, writer *LedgerWriter) *RoleService {
	return &RoleService{
		store:  store,
		writer: writer,
		now:    time.Now,
	}
}

// Authorize is the single capability check consulted before every
// mutation. product is required for owner-scoped capabilities.
func (s *RoleService) Authorize(ctx context.Context, r repository.Reader, caller string, capability Capability, product *models.Product) error {
	if caller == "" {
		return unauthorized("no caller identity")
	}

	participant, err := r.GetParticipant(ctx, caller)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return unauthorized("%s is not a registered participant", caller)
		}
		return err
	}

	switch capability {
	case CapCreateProduct:
		if participant.HasRole(models.RoleManufacturer) {
			return nil
		}
		return unauthorized("%s lacks the %s role", caller, models.RoleManufacturer)
	case CapTransfer, CapUpdateStatus:
		if product == nil {
			return fmt.Errorf("capability %s requires a product", capability)
		}
		if product.CurrentOwner == caller || participant.HasRole(models.RoleAdmin) {
			return nil
		}
		return unauthorized("%s is not the owner of product %d", caller, product.ID)
	case CapInspect:
		if participant.HasAnyRole(append(models.SupplyChainRoles(), models.RoleAdmin)...) {
			return nil
		}
		return unauthorized("%s holds no supply-chain role", caller)
	case CapManageRoles, CapPause, CapAudit:
		if participant.HasRole(models.RoleAdmin) {
			return nil
		}
		return unauthorized("%s lacks the %s role", caller, models.RoleAdmin)
	default:
		return fmt.Errorf("unknown capability %q", capability)
	}
}

func (s *RoleService) HasRole(ctx context.Context, role models.Role, account string) (bool, error) {
	if !role.Valid() {
		return false, invalid("unknown role %q", role)
	}

	participant, err := s.store.GetParticipant(ctx, account)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return participant.HasRole(role), nil
}

// GrantRole adds role to account, creating the participant when it does not
// exist yet. Granting a held role is a no-op and reports changed=false.
func (s *RoleService) GrantRole(ctx context.Context, caller string, req *RoleChangeRequest) (*models.Participant, bool, error) {
	account, err := validateRoleChange(req)
	if err != nil {
		return nil, false, err
	}

	var (
		result  *models.Participant
		changed bool
	)
	err = s.writer.do(ctx, func(tx repository.Tx) error {
		if err := s.Authorize(ctx, tx, caller, CapManageRoles, nil); err != nil {
			return err
		}

		participant, err := tx.GetParticipant(ctx, account)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			participant = &models.Participant{
				Account:   account,
				CreatedAt: s.now(),
				UpdatedAt: s.now(),
			}
			participant.AddRole(req.Role)
			changed = true
			result = participant
			return tx.InsertParticipant(ctx, participant)
		case err != nil:
			return err
		}

		result = participant
		if !participant.AddRole(req.Role) {
			return nil
		}
		changed = true
		participant.UpdatedAt = s.now()
		return tx.UpdateParticipant(ctx, participant)
	})
	if err != nil {
		return nil, false, err
	}

	if changed {
		logrus.WithFields(logrus.Fields{
			"caller":  caller,
			"account": account,
			"role":    req.Role,
		}).Info("Role granted")
	}
	return result, changed, nil
}

// RevokeRole removes role from account. Revoking a role that is not held is
// a no-op; the last admin cannot be revoked.
func (s *RoleService) RevokeRole(ctx context.Context, caller string, req *RoleChangeRequest) (*models.Participant, bool, error) {
	account, err := validateRoleChange(req)
	if err != nil {
		return nil, false, err
	}

	var (
		result  *models.Participant
		changed bool
	)
	err = s.writer.do(ctx, func(tx repository.Tx) error {
		if err := s.Authorize(ctx, tx, caller, CapManageRoles, nil); err != nil {
			return err
		}

		participant, err := tx.GetParticipant(ctx, account)
		if err != nil {
			return err
		}
		result = participant
		if !participant.HasRole(req.Role) {
			return nil
		}

		if req.Role == models.RoleAdmin {
			admins, err := tx.CountParticipantsWithRole(ctx, models.RoleAdmin)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return invalid("cannot revoke the last admin")
			}
		}

		participant.RemoveRole(req.Role)
		participant.UpdatedAt = s.now()
		changed = true
		return tx.UpdateParticipant(ctx, participant)
	})
	if err != nil {
		return nil, false, err
	}

	if changed {
		logrus.WithFields(logrus.Fields{
			"caller":  caller,
			"account": account,
			"role":    req.Role,
		}).Info("Role revoked")
	}
	return result, changed, nil
}

func (s *RoleService) RegisterParticipant(ctx context.Context, caller string, req *RegisterParticipantRequest) (*models.Participant, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, invalidRequest(err)
	}
	account := strings.TrimSpace(req.Account)
	if account == "" {
		return nil, invalid("account must not be blank")
	}
	for _, role := range req.Roles {
		if !role.Valid() {
			return nil, invalid("unknown role %q", role)
		}
	}

	participant := &models.Participant{
		Account:     account,
		CompanyName: strings.TrimSpace(req.CompanyName),
		CreatedAt:   s.now(),
		UpdatedAt:   s.now(),
	}
	for _, role := range req.Roles {
		participant.AddRole(role)
	}
	if req.Password != "" {
		if err := participant.SetPassword(req.Password); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	err := s.writer.do(ctx, func(tx repository.Tx) error {
		if err := s.Authorize(ctx, tx, caller, CapManageRoles, nil); err != nil {
			return err
		}
		if _, err := tx.GetParticipant(ctx, account); err == nil {
			return invalid("participant %q already exists", account)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return tx.InsertParticipant(ctx, participant)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"caller":  caller,
		"account": account,
		"roles":   participant.Roles,
	}).Info("Participant registered")
	return participant, nil
}

// Bootstrap makes sure account exists and holds the admin role. It runs once
// at startup, before any caller exists, so it skips the admin check.
func (s *RoleService) Bootstrap(ctx context.Context, account, company, password string) error {
	return s.writer.do(ctx, func(tx repository.Tx) error {
		participant, err := tx.GetParticipant(ctx, account)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			participant = &models.Participant{
				Account:     account,
				CompanyName: company,
				CreatedAt:   s.now(),
				UpdatedAt:   s.now(),
			}
			participant.AddRole(models.RoleAdmin)
			if password != "" {
				if err := participant.SetPassword(password); err != nil {
					return fmt.Errorf("failed to hash admin password: %w", err)
				}
			}
			logrus.WithField("account", account).Info("Bootstrap admin created")
			return tx.InsertParticipant(ctx, participant)
		case err != nil:
			return err
		}

		changed := participant.AddRole(models.RoleAdmin)
		if participant.PasswordHash == "" && password != "" {
			if err := participant.SetPassword(password); err != nil {
				return fmt.Errorf("failed to hash admin password: %w", err)
			}
			changed = true
		}
		if !changed {
			return nil
		}
		participant.UpdatedAt = s.now()
		return tx.UpdateParticipant(ctx, participant)
	})
}

func (s *RoleService) GetParticipant(ctx context.Context, account string) (*models.Participant, error) {
	participant, err := s.store.GetParticipant(ctx, account)
	return participant, translate(err)
}

func (s *RoleService) ListParticipants(ctx context.Context, role models.Role) ([]models.Participant, error) {
	if role != "" && !role.Valid() {
		return nil, invalid("unknown role %q", role)
	}

	participants, err := s.store.ListParticipants(ctx)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return participants, nil
	}

	filtered := participants[:0]
	for _, p := range participants {
		if p.HasRole(role) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func validateRoleChange(req *RoleChangeRequest) (string, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return "", invalidRequest(err)
	}
	if !req.Role.Valid() {
		return "", invalid("unknown role %q", req.Role)
	}
	account := strings.TrimSpace(req.Account)
	if account == "" {
		return "", invalid("account must not be blank")
	}
	return account, nil
}
