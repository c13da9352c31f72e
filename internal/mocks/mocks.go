// Package mocks holds testify mocks for the service interfaces consumed by the HTTP layer.
package mocks

import "github.com/nuhm/bitnap/backend/internal/service"

var (
	_ service.IAuthService    = (*MockAuthService)(nil)
	_ service.IProfileService = (*MockProfileService)(nil)
	_ service.IBuddyService   = (*MockBuddyService)(nil)
	_ service.IFeedService    = (*MockFeedService)(nil)
	_ service.IJournalService = (*MockJournalService)(nil)
	_ service.IDraftService   = (*MockDraftService)(nil)
)
