// Package screens defines the dependency bundle shared by all screen
// packages. Screens receive services by injection; none of them reach for
// globals.
package screens

import (
	"codequest/internal/admin"
	"codequest/internal/api"
	"codequest/internal/auth"
	"codequest/internal/catalog"
	"codequest/internal/comments"
	"codequest/internal/debuglog"
)

// Deps carries the services a screen may need. Screens take the whole
// bundle because most of them construct other screens on navigation.
type Deps struct {
	Auth     *auth.Service
	Client   *api.Client
	Catalog  *catalog.Service
	Admin    *admin.Service
	Comments *comments.Service
	Log      *debuglog.Logger
}
