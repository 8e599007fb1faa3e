// internal/app/features/members/handler.go
package members

import (
	uierrors "github.com/kapatiranph/portal/internal/app/features/errors"
	accountstore "github.com/kapatiranph/portal/internal/app/store/accounts"
	memberstore "github.com/kapatiranph/portal/internal/app/store/members"
	"github.com/kapatiranph/portal/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for the member roster: the admin
// HTML screens and the JSON API the mobile client consumes.
type Handler struct {
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Flash    *auth.FlashStore
	Members  *memberstore.Store
	Accounts *accountstore.Store
}

func NewHandler(db *mongo.Database, flash *auth.FlashStore, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		ErrLog:   errLog,
		Flash:    flash,
		Members:  memberstore.New(db),
		Accounts: accountstore.New(db),
	}
}
