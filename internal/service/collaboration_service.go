package service

import (
	"context"

	"aura/internal/models"
	"aura/internal/notifications"
	"aura/internal/repository"
	"aura/internal/validation"

	"gorm.io/gorm"
)

// CollaborationService provides list lifecycle and access-grant logic.
type CollaborationService struct {
	listRepo   repository.ListRepository
	accessRepo repository.AccessRepository
	userRepo   repository.UserRepository
	notifRepo  repository.NotificationRepository
	notifier   *notifications.Notifier
	db         *gorm.DB
}

// NewCollaborationService returns a new CollaborationService.
func NewCollaborationService(
	listRepo repository.ListRepository,
	accessRepo repository.AccessRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	notifier *notifications.Notifier,
	db *gorm.DB,
) *CollaborationService {
	return &CollaborationService{
		listRepo:   listRepo,
		accessRepo: accessRepo,
		userRepo:   userRepo,
		notifRepo:  notifRepo,
		notifier:   notifier,
		db:         db,
	}
}

func (s *CollaborationService) notify(ctx context.Context, n *models.Notification) {
	if s.notifRepo == nil {
		return
	}
	if err := s.notifRepo.Create(ctx, nil, n); err != nil {
		return
	}
	if s.notifier != nil {
		_ = s.notifier.PublishNotification(ctx, n)
	}
}

// CreateList creates a list owned by the caller.
func (s *CollaborationService) CreateList(ctx context.Context, ownerID uint, name, description string, privacy models.Privacy) (*models.List, error) {
	if err := validation.ValidateListName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if privacy == "" {
		privacy = models.PrivacyPublic
	}
	if !privacy.Valid() {
		return nil, models.NewValidationError("Invalid privacy level")
	}

	list := &models.List{
		Name:         name,
		Description:  description,
		OwnerID:      ownerID,
		PrivacyLevel: privacy,
	}
	if err := s.listRepo.Create(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetList returns a list if the viewer may see it. Private lists are only
// shown to the owner and users holding an accepted grant.
func (s *CollaborationService) GetList(ctx context.Context, listID, viewerID uint) (*models.List, error) {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.PrivacyLevel == models.PrivacyPrivate && !list.IsGeneral() && list.OwnerID != viewerID {
		ok, err := s.accessRepo.HasAcceptedAccess(ctx, listID, viewerID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, models.NewUnauthorizedError("You do not have access to this list")
		}
	}
	return list, nil
}

// MyLists returns the lists owned by the user.
func (s *CollaborationService) MyLists(ctx context.Context, userID uint) ([]models.List, error) {
	return s.listRepo.GetByOwner(ctx, userID)
}

// UpdateList applies owner-only list mutations.
func (s *CollaborationService) UpdateList(ctx context.Context, userID, listID uint, name, description string, privacy models.Privacy) (*models.List, error) {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.OwnerID != userID {
		return nil, models.NewUnauthorizedError("Only the list owner can update it")
	}
	if list.IsGeneral() {
		return nil, models.NewValidationError("The General list cannot be modified")
	}

	if name != "" {
		if err := validation.ValidateListName(name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		list.Name = name
	}
	if description != "" {
		list.Description = description
	}
	if privacy != "" {
		if !privacy.Valid() {
			return nil, models.NewValidationError("Invalid privacy level")
		}
		list.PrivacyLevel = privacy
	}

	if err := s.listRepo.Update(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteList removes an owned list. Its posts move to the General list.
func (s *CollaborationService) DeleteList(ctx context.Context, userID, listID uint) error {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		return err
	}
	if list.OwnerID != userID {
		return models.NewUnauthorizedError("Only the list owner can delete it")
	}
	return s.listRepo.Delete(ctx, listID)
}

// ResolveRole returns the caller's role on a list. Ownership wins over any
// stored grant; otherwise only an accepted grant confers its role.
func (s *CollaborationService) ResolveRole(ctx context.Context, listID, userID uint) (models.ListRole, error) {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		return "", err
	}
	if list.OwnerID == userID {
		return models.ListRoleOwner, nil
	}

	access, err := s.accessRepo.GetAccess(ctx, listID, userID)
	if err != nil {
		return "", err
	}
	if access == nil || access.Status != models.ListAccessStatusAccepted {
		return "", nil
	}
	return access.Role, nil
}

// Invite grants a pending role on an owned list. Re-inviting an existing
// (list, user) pair resets that row rather than stacking a duplicate.
func (s *CollaborationService) Invite(ctx context.Context, ownerID, listID, inviteeID uint, role models.ListRole) (*models.ListAccess, error) {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.OwnerID != ownerID {
		return nil, models.NewUnauthorizedError("Only the list owner can invite users")
	}
	if inviteeID == ownerID {
		return nil, models.NewValidationError("The owner already has full access")
	}
	if !models.GrantableRole(role) {
		return nil, models.NewValidationError("Role must be collaborator or viewer")
	}
	if _, err := s.userRepo.GetByID(ctx, inviteeID); err != nil {
		return nil, err
	}

	access := &models.ListAccess{
		ListID:      listID,
		UserID:      inviteeID,
		Role:        role,
		Status:      models.ListAccessStatusPending,
		InvitedByID: &ownerID,
	}
	if err := s.accessRepo.UpsertInvite(ctx, access); err != nil {
		return nil, err
	}

	actorID := ownerID
	s.notify(ctx, &models.Notification{
		UserID:  inviteeID,
		ActorID: &actorID,
		Type:    models.NotificationListInvite,
		ListID:  &listID,
		Message: "invited you to a list",
	})

	return s.accessRepo.GetAccess(ctx, listID, inviteeID)
}

// RespondToInvite lets the invitee accept or reject a pending invitation.
func (s *CollaborationService) RespondToInvite(ctx context.Context, userID, accessID uint, accept bool) (*models.ListAccess, error) {
	access, err := s.accessRepo.GetByID(ctx, accessID)
	if err != nil {
		return nil, err
	}
	if access.UserID != userID {
		return nil, models.NewUnauthorizedError("You can only respond to your own invitations")
	}
	if access.Status != models.ListAccessStatusPending {
		return nil, models.NewValidationError("Invitation is not pending")
	}

	status := models.ListAccessStatusRejected
	if accept {
		status = models.ListAccessStatusAccepted
	}
	if err := s.accessRepo.UpdateStatus(ctx, accessID, status); err != nil {
		return nil, err
	}

	if accept && access.InvitedByID != nil {
		actorID := userID
		s.notify(ctx, &models.Notification{
			UserID:  *access.InvitedByID,
			ActorID: &actorID,
			Type:    models.NotificationAccessGranted,
			ListID:  &access.ListID,
			Message: "accepted your list invitation",
		})
	}

	return s.accessRepo.GetByID(ctx, accessID)
}

// RequestAccess records a user's request to join a list they cannot see.
func (s *CollaborationService) RequestAccess(ctx context.Context, userID, listID uint, role models.ListRole, message string) (*models.AccessRequest, error) {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.OwnerID == userID {
		return nil, models.NewValidationError("You already own this list")
	}
	if list.IsGeneral() {
		return nil, models.NewValidationError("The General list is open to everyone")
	}
	if role == "" {
		role = models.ListRoleViewer
	}
	if !models.GrantableRole(role) {
		return nil, models.NewValidationError("Role must be collaborator or viewer")
	}

	if access, err := s.accessRepo.GetAccess(ctx, listID, userID); err != nil {
		return nil, err
	} else if access != nil && access.Status == models.ListAccessStatusAccepted {
		return nil, models.NewValidationError("You already have access to this list")
	}
	if existing, err := s.accessRepo.GetRequest(ctx, listID, userID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewValidationError("Access request already pending")
	}

	req := &models.AccessRequest{
		ListID:        listID,
		UserID:        userID,
		RequestedRole: role,
		Message:       message,
	}
	if err := s.accessRepo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	actorID := userID
	s.notify(ctx, &models.Notification{
		UserID:  list.OwnerID,
		ActorID: &actorID,
		Type:    models.NotificationAccessRequest,
		ListID:  &listID,
		Message: "requested access to your list",
	})

	return req, nil
}

// RespondToAccessRequest lets the list owner approve or deny a request.
// Approval inserts an accepted grant and consumes the request atomically.
func (s *CollaborationService) RespondToAccessRequest(ctx context.Context, ownerID, requestID uint, approve bool) error {
	req, err := s.accessRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}

	list, err := s.listRepo.GetByID(ctx, req.ListID)
	if err != nil {
		return err
	}
	if list.OwnerID != ownerID {
		return models.NewUnauthorizedError("Only the list owner can respond to access requests")
	}

	if !approve {
		return s.accessRepo.DeleteRequest(ctx, nil, requestID)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		access := &models.ListAccess{
			ListID: req.ListID,
			UserID: req.UserID,
			Role:   req.RequestedRole,
		}
		if err := s.accessRepo.InsertAccepted(ctx, tx, access); err != nil {
			return err
		}
		return s.accessRepo.DeleteRequest(ctx, tx, requestID)
	})
	if err != nil {
		return err
	}

	actorID := ownerID
	listID := req.ListID
	s.notify(ctx, &models.Notification{
		UserID:  req.UserID,
		ActorID: &actorID,
		Type:    models.NotificationAccessGranted,
		ListID:  &listID,
		Message: "granted you access to a list",
	})
	return nil
}

// RevokeAccess removes a user's grant from an owned list.
func (s *CollaborationService) RevokeAccess(ctx context.Context, ownerID, listID, userID uint) error {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		return err
	}
	if list.OwnerID != ownerID {
		return models.NewUnauthorizedError("Only the list owner can revoke access")
	}
	return s.accessRepo.DeleteAccess(ctx, listID, userID)
}

// ListMembers returns all access rows for an owned list.
func (s *CollaborationService) ListMembers(ctx context.Context, ownerID, listID uint) ([]models.ListAccess, error) {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.OwnerID != ownerID {
		return nil, models.NewUnauthorizedError("Only the list owner can view members")
	}
	return s.accessRepo.ListForList(ctx, listID)
}

// ListAccessRequests returns pending access requests for an owned list.
func (s *CollaborationService) ListAccessRequests(ctx context.Context, ownerID, listID uint) ([]models.AccessRequest, error) {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.OwnerID != ownerID {
		return nil, models.NewUnauthorizedError("Only the list owner can view access requests")
	}
	return s.accessRepo.ListRequestsForList(ctx, listID)
}
