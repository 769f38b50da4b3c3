package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VideoReaction is one row per (video, user): like flag plus optional rating.
type VideoReaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VideoID   uint      `gorm:"not null;uniqueIndex:ux_video_reactions_video_user,priority:1" json:"video_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:ux_video_reactions_video_user,priority:2" json:"user_id"`
	Liked     bool      `gorm:"default:false" json:"liked"`
	Rating    int       `gorm:"default:0" json:"rating"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ToggleVideoLike flips the like flag for the user on the video and returns
// the new value. The first toggle creates the row with liked = true.
func ToggleVideoLike(db *gorm.DB, userID, videoID uint) (bool, error) {
	var reaction VideoReaction
	err := db.Where("video_id = ? AND user_id = ?", videoID, userID).First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			reaction = VideoReaction{VideoID: videoID, UserID: userID, Liked: true}
			if err := db.Create(&reaction).Error; err != nil {
				return false, err
			}
			return true, nil
		}
		return false, err
	}

	reaction.Liked = !reaction.Liked
	if err := db.Save(&reaction).Error; err != nil {
		return false, err
	}
	return reaction.Liked, nil
}

// SetVideoRating stores the user's rating for the video, creating the
// reaction row when needed. Rating must already be clamped by the caller.
func SetVideoRating(db *gorm.DB, userID, videoID uint, rating int) error {
	reaction := VideoReaction{VideoID: videoID, UserID: userID, Rating: rating}
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "video_id"},
			{Name: "user_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(&reaction).Error
}
