package db

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/sweetly/sweetly-server/internal/hash"
	"github.com/sweetly/sweetly-server/internal/models"
)

// SeedAdmin creates the admin account from env credentials. A failure here is
// logged and does not stop startup.
func SeedAdmin(ctx context.Context, db *gorm.DB, username, password string, l *slog.Logger) {
	if username == "" || password == "" {
		l.Warn("no ADMIN_USERNAME or ADMIN_PASSWORD set, skipping admin seed")
		return
	}

	var existing models.User
	err := db.WithContext(ctx).Where("username = ? AND role = ?", username, "admin").First(&existing).Error
	if err == nil {
		l.Info("admin user already exists", "username", username)
		return
	}
	if err != gorm.ErrRecordNotFound {
		l.Error("admin seed lookup failed", "error", err)
		return
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("admin seed hash failed", "error", err)
		return
	}

	admin := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         "admin",
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		l.Error("admin seed create failed", "error", err)
		return
	}

	l.Info("admin user created", "username", username)
}
