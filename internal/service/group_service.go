package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/logger"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/storage"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// inviteCodeAttempts bounds retries when a freshly generated code collides.
const inviteCodeAttempts = 3

// InviteOptions configures invite QR cards.
type InviteOptions struct {
	BaseURL     string
	QRSize      int
	QRURLExpiry time.Duration
}

// InviteQR is a rendered invite card. URL is set when the card was
// uploaded to object storage; otherwise PNG carries the image.
type InviteQR struct {
	PNG []byte
	URL string
}

// GroupService is the group membership engine.
type GroupService interface {
	// CreateGroup creates a group owned by the caller together with its first invite code.
	CreateGroup(ctx context.Context, s domain.Session, name, description string) (*domain.Group, *domain.InviteCode, error)
	ListGroups(ctx context.Context, s domain.Session) ([]domain.Group, error)
	GenerateInvite(ctx context.Context, s domain.Session, groupID primitive.ObjectID) (*domain.InviteCode, error)
	ListInvites(ctx context.Context, s domain.Session, groupID primitive.ObjectID) ([]domain.InviteCode, error)
	// RedeemInvite joins the caller to the code's group. Redeeming again is
	// a successful no-op reported through alreadyMember.
	RedeemInvite(ctx context.Context, s domain.Session, code string) (group *domain.Group, alreadyMember bool, err error)
	ListMembers(ctx context.Context, s domain.Session, groupID primitive.ObjectID) ([]primitive.ObjectID, error)
	InviteQR(ctx context.Context, s domain.Session, groupID primitive.ObjectID, code string) (*InviteQR, error)
}

type groupService struct {
	groups      repository.GroupRepository
	invites     repository.InviteCodeRepository
	memberships repository.MembershipRepository
	guard       *Guard
	files       storage.FileStorage // nil when object storage is disabled
	opts        InviteOptions

	newCode  func() string
	encodeQR func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)
}

// NewGroupService creates a GroupService. files may be nil.
func NewGroupService(store repository.Store, guard *Guard, files storage.FileStorage, opts InviteOptions) GroupService {
	if opts.QRSize <= 0 {
		opts.QRSize = 256
	}
	if opts.QRURLExpiry <= 0 {
		opts.QRURLExpiry = storage.DefaultPresignedURLExpiry
	}
	return &groupService{
		groups:      store.Groups,
		invites:     store.Invites,
		memberships: store.Memberships,
		guard:       guard,
		files:       files,
		opts:        opts,
		newCode:     newInviteCode,
		encodeQR:    qrcode.Encode,
	}
}

// newInviteCode returns 122 random bits as 32 hex characters.
func newInviteCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *groupService) CreateGroup(ctx context.Context, sess domain.Session, name, description string) (*domain.Group, *domain.InviteCode, error) {
	if err := s.guard.RequireRole(sess, ActionCreateGroup); err != nil {
		return nil, nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, validationError("group name is required")
	}

	group := &domain.Group{
		Name:        name,
		Description: strings.TrimSpace(description),
		OwnerID:     sess.UserID,
	}
	if _, err := s.groups.Create(ctx, group); err != nil {
		return nil, nil, err
	}

	invite, err := s.issueInvite(ctx, group.ID)
	if err != nil {
		return nil, nil, err
	}
	logger.Info.Printf("Group %s created by trainer %s", group.ID.Hex(), sess.UserID.Hex())
	return group, invite, nil
}

func (s *groupService) ListGroups(ctx context.Context, sess domain.Session) ([]domain.Group, error) {
	if err := s.guard.RequireRole(sess, ActionListGroups); err != nil {
		return nil, err
	}
	var groups []domain.Group
	var err error
	if sess.Role == domain.RoleTrainer {
		groups, err = s.groups.GetByOwnerID(ctx, sess.UserID)
	} else {
		var groupIDs []primitive.ObjectID
		groupIDs, err = s.memberships.GetGroupIDsByUserID(ctx, sess.UserID)
		if err == nil {
			groups, err = s.groups.GetByIDs(ctx, groupIDs)
		}
	}
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if err := s.countMembers(ctx, &groups[i]); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

func (s *groupService) countMembers(ctx context.Context, group *domain.Group) error {
	n, err := s.memberships.CountByGroupID(ctx, group.ID)
	if err != nil {
		return err
	}
	group.MembersCount = n
	return nil
}

func (s *groupService) GenerateInvite(ctx context.Context, sess domain.Session, groupID primitive.ObjectID) (*domain.InviteCode, error) {
	group, err := s.guard.AuthorizeGroup(ctx, sess, ActionGenerateInvite, groupID)
	if err != nil {
		return nil, err
	}
	return s.issueInvite(ctx, group.ID)
}

// issueInvite stores a new code for the group. Existing codes stay valid.
func (s *groupService) issueInvite(ctx context.Context, groupID primitive.ObjectID) (*domain.InviteCode, error) {
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		invite := &domain.InviteCode{
			Code:      s.newCode(),
			GroupID:   groupID,
			CreatedAt: time.Now().UTC(),
		}
		err := s.invites.Create(ctx, invite)
		if err == nil {
			logger.Info.Printf("Invite code issued for group %s", groupID.Hex())
			return invite, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		logger.Warn.Printf("Invite code collision for group %s, regenerating", groupID.Hex())
	}
	return nil, fmt.Errorf("could not generate a unique invite code after %d attempts", inviteCodeAttempts)
}

func (s *groupService) ListInvites(ctx context.Context, sess domain.Session, groupID primitive.ObjectID) ([]domain.InviteCode, error) {
	group, err := s.guard.AuthorizeGroup(ctx, sess, ActionListInvites, groupID)
	if err != nil {
		return nil, err
	}
	return s.invites.GetByGroupID(ctx, group.ID)
}

func (s *groupService) RedeemInvite(ctx context.Context, sess domain.Session, code string) (*domain.Group, bool, error) {
	if err := s.guard.RequireRole(sess, ActionJoinGroup); err != nil {
		return nil, false, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, false, validationError("invite_code is required")
	}

	invite, err := s.invites.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, ErrInviteNotFound
		}
		return nil, false, err
	}

	created, err := s.memberships.AddIfAbsent(ctx, invite.GroupID, sess.UserID)
	if err != nil {
		return nil, false, err
	}
	if created {
		logger.Info.Printf("Trainee %s joined group %s", sess.UserID.Hex(), invite.GroupID.Hex())
	}

	group, err := s.groups.GetByID(ctx, invite.GroupID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, ErrGroupNotFound
		}
		return nil, false, err
	}
	if err := s.countMembers(ctx, group); err != nil {
		return nil, false, err
	}
	return group, !created, nil
}

func (s *groupService) ListMembers(ctx context.Context, sess domain.Session, groupID primitive.ObjectID) ([]primitive.ObjectID, error) {
	group, err := s.guard.AuthorizeGroup(ctx, sess, ActionListMembers, groupID)
	if err != nil {
		return nil, err
	}
	return s.memberships.GetUserIDsByGroupID(ctx, group.ID)
}

// InviteQR renders the join link of one of the group's codes as a PNG.
func (s *groupService) InviteQR(ctx context.Context, sess domain.Session, groupID primitive.ObjectID, code string) (*InviteQR, error) {
	group, err := s.guard.AuthorizeGroup(ctx, sess, ActionListInvites, groupID)
	if err != nil {
		return nil, err
	}
	invite, err := s.invites.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	if invite.GroupID != group.ID {
		return nil, ErrInviteNotFound
	}

	png, err := s.encodeQR(s.joinURL(invite.Code), qrcode.Medium, s.opts.QRSize)
	if err != nil {
		return nil, fmt.Errorf("encode invite qr: %w", err)
	}
	if s.files == nil {
		return &InviteQR{PNG: png}, nil
	}

	key := storage.InviteQRKey(group.ID.Hex(), invite.Code)
	if err := s.files.PutObject(ctx, key, "image/png", png); err != nil {
		return nil, fmt.Errorf("upload invite qr: %w", err)
	}
	link, err := s.files.GeneratePresignedDownloadURL(ctx, key, s.opts.QRURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign invite qr: %w", err)
	}
	return &InviteQR{URL: link}, nil
}

func (s *groupService) joinURL(code string) string {
	return strings.TrimRight(s.opts.BaseURL, "/") + "/api/groups/join?invite_code=" + url.QueryEscape(code)
}
