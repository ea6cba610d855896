package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/siakadcloud/siakad-backend/internal/config"
	"github.com/siakadcloud/siakad-backend/internal/model"
	"github.com/siakadcloud/siakad-backend/internal/repository"
)

// AnnouncementService handles announcements, their targeted push fan-out
// and the live admin feed.
type AnnouncementService struct {
	announcements *repository.AnnouncementRepository
	users         *repository.UserRepository
	notifier      *Notifier
	rdb           *redis.Client
	log           zerolog.Logger
}

// NewAnnouncementService creates a new AnnouncementService.
func NewAnnouncementService(announcements *repository.AnnouncementRepository, users *repository.UserRepository, notifier *Notifier, rdb *redis.Client, log zerolog.Logger) *AnnouncementService {
	return &AnnouncementService{
		announcements: announcements,
		users:         users,
		notifier:      notifier,
		rdb:           rdb,
		log:           log.With().Str("component", "announcement_service").Logger(),
	}
}

func rolesForAudience(a model.Audience) []model.Role {
	switch a {
	case model.AudienceGuru:
		return []model.Role{model.RoleTeacher}
	case model.AudienceSiswa:
		return []model.Role{model.RoleStudent}
	default:
		return []model.Role{model.RoleTeacher, model.RoleStudent}
	}
}

// Create publishes an announcement: the targeted roles get a push
// notification and connected admin dashboards see it live. Both side
// effects are best effort.
func (s *AnnouncementService) Create(ctx context.Context, authorID int, req *model.AnnouncementRequest) (*model.Announcement, error) {
	a := &model.Announcement{
		Title:    req.Title,
		Body:     req.Body,
		Audience: model.Audience(req.Audience),
		AuthorID: authorID,
	}
	if err := s.announcements.Create(ctx, a); err != nil {
		return nil, err
	}

	if tokens, err := s.users.DeviceTokensByRoles(ctx, rolesForAudience(a.Audience)); err == nil {
		s.notifier.Enqueue(ctx, tokens, a.Title, a.Body)
	} else {
		s.log.Warn().Err(err).Msg("token lookup for notify failed")
	}
	s.publishLive(ctx, a)
	return a, nil
}

// publishLive pushes the announcement onto the Pub/Sub channel feeding the
// admin WebSocket stream.
func (s *AnnouncementService) publishLive(ctx context.Context, a *model.Announcement) {
	payload, err := json.Marshal(a)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal announcement")
		return
	}
	if err := s.rdb.Publish(ctx, config.Keys.AnnouncementChannel, payload).Err(); err != nil {
		s.log.Warn().Err(err).Msg("publish announcement failed")
	}
}

// Update rewrites an announcement without re-notifying.
func (s *AnnouncementService) Update(ctx context.Context, id int, req *model.AnnouncementRequest) (*model.Announcement, error) {
	a, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Title = req.Title
	a.Body = req.Body
	a.Audience = model.Audience(req.Audience)
	if err := s.announcements.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, id int) error {
	return s.announcements.Delete(ctx, id)
}

// Get retrieves one announcement.
func (s *AnnouncementService) Get(ctx context.Context, id int) (*model.Announcement, error) {
	return s.announcements.GetByID(ctx, id)
}

// ListAll retrieves every announcement. Admin view.
func (s *AnnouncementService) ListAll(ctx context.Context) ([]model.Announcement, error) {
	return s.announcements.ListAll(ctx)
}

// ListForRole retrieves the announcements a role is meant to see.
func (s *AnnouncementService) ListForRole(ctx context.Context, role model.Role) ([]model.Announcement, error) {
	audience := model.AudienceSemua
	switch role {
	case model.RoleTeacher:
		audience = model.AudienceGuru
	case model.RoleStudent:
		audience = model.AudienceSiswa
	}
	return s.announcements.ListForAudience(ctx, audience)
}
