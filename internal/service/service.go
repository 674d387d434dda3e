package service

import (
	"github.com/smartcity/corridor/internal/domain"
)

// SnapshotPublisher is re-exported from domain for convenience
type SnapshotPublisher = domain.SnapshotPublisher
