// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kapatiranph/portal/internal/app/cms"
)

// DBDeps holds database/back-end dependencies for the app.
// Extend this struct as the portal evolves.
type DBDeps struct {
	PortalMongoClient   *mongo.Client
	PortalMongoDatabase *mongo.Database

	// CMSCache is nil when redis_addr is blank; the CMS client and the
	// health check both treat a nil cache as "caching disabled".
	CMSCache *cms.Cache
}
