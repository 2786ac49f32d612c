package storage

import (
	"context"
	"errors"

	"github.com/ericogr/fleet-clash/internal/game"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// matchColumns are the match_states columns a commit rewrites.
var matchColumns = []string{
	"game_phase", "round_num", "player_states", "acks", "round_seed",
	"round_log", "last_winner", "pending_finish", "revision", "updated_at",
}

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateRoom(ctx context.Context, room *game.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *sqliteRepository) GetRoom(ctx context.Context, roomID string) (*game.Room, error) {
	var room game.Room
	err := r.db.WithContext(ctx).
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", roomID).First(&room).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &room, nil
}

func (r *sqliteRepository) AddPlayer(ctx context.Context, p *game.Player, maxPlayers int) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var count int64
	if err := tx.Model(&game.Room{}).Where("id = ?", p.RoomID).Count(&count).Error; err != nil {
		tx.Rollback()
		return err
	}
	if count == 0 {
		tx.Rollback()
		return ErrNotFound
	}
	if err := tx.Model(&game.Player{}).Where("room_id = ?", p.RoomID).Count(&count).Error; err != nil {
		tx.Rollback()
		return err
	}
	if int(count) >= maxPlayers {
		tx.Rollback()
		return ErrRoomFull
	}
	if err := tx.Create(p).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func (r *sqliteRepository) GetMatch(ctx context.Context, roomID string) (*game.MatchState, error) {
	var m game.MatchState
	if err := r.db.WithContext(ctx).Where("room_id = ?", roomID).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *sqliteRepository) CreateMatch(ctx context.Context, c MatchCommit) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_id"}},
			DoNothing: true,
		}).Create(c.Next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		return applySideEffects(tx, c)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *sqliteRepository) CommitMatch(ctx context.Context, c MatchCommit) (bool, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return false, tx.Error
	}

	res := tx.Model(c.Next).
		Where("room_id = ? AND revision = ?", c.Next.RoomID, c.ExpectedRevision).
		Select(matchColumns).
		Updates(c.Next)
	if res.Error != nil {
		tx.Rollback()
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return false, nil
	}
	if err := applySideEffects(tx, c); err != nil {
		tx.Rollback()
		return false, err
	}
	if err := tx.Commit().Error; err != nil {
		return false, err
	}
	return true, nil
}

func applySideEffects(tx *gorm.DB, c MatchCommit) error {
	roomID := c.Next.RoomID
	for playerID, lives := range c.Lives {
		if err := tx.Model(&game.Player{}).
			Where("room_id = ? AND player_id = ?", roomID, playerID).
			Update("lives", lives).Error; err != nil {
			return err
		}
	}
	for playerID, ready := range c.Ready {
		if err := tx.Model(&game.Player{}).
			Where("room_id = ? AND player_id = ?", roomID, playerID).
			Update("is_ready", ready).Error; err != nil {
			return err
		}
	}
	if c.Status != "" {
		if err := tx.Model(&game.Room{}).Where("id = ?", roomID).Update("status", c.Status).Error; err != nil {
			return err
		}
	}
	if c.Archive != nil {
		// A replayed round overwrites its archive instead of failing on the
		// (room, round) unique index.
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_id"}, {Name: "round_num"}},
			DoUpdates: clause.AssignmentColumns([]string{"player_id", "fleet", "updated_at"}),
		}).Create(c.Archive).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *sqliteRepository) LatestArchive(ctx context.Context, roomID, playerID string) (*game.FleetArchive, error) {
	var a game.FleetArchive
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND player_id = ?", roomID, playerID).
		Order("round_num DESC").
		First(&a).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
