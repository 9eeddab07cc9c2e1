package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"pulseride/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	// RedisAvailableKeyPrefix + hospital id holds the set of AVAILABLE
	// ambulance ids at that hospital.
	RedisAvailableKeyPrefix = "ambulances:available:"

	// Batch size for startup re-sync. The pipeline is created and executed
	// inside the batch loop so memory stays bounded.
	syncBatchSize = 500

	// Interval for cleaning up stale per-hospital mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// AvailabilitySyncService mirrors ambulance availability from PostgreSQL
// into Redis sets, one set per hospital. The mirror is refreshed
// synchronously on every committed status change, so a read reflects the
// last committed mutation; Postgres stays the source of truth and callers
// fall back to it when Redis is unreachable.
//
// Lock ordering: acquire the hospital mutex first, then touch DB/Redis.
// Single-command updates (SADD/SREM) are atomic in Redis and take no mutex.
type AvailabilitySyncService struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger

	// Per-hospital mutex guarding multi-step resyncs
	hospitalMu sync.Map // map[int64]*mutexWithTimestamp

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewAvailabilitySyncService starts the background mutex cleanup goroutine.
// Call Stop() during graceful shutdown.
func NewAvailabilitySyncService(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger) *AvailabilitySyncService {
	svc := &AvailabilitySyncService{
		db:          db,
		redisClient: redisClient,
		log:         log,
		stopChan:    make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupMutexMapLoop()

	return svc
}

// Stop gracefully shuts down the service. Safe to call multiple times.
func (s *AvailabilitySyncService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("AvailabilitySyncService stopped")
	}
}

// SyncOnStartup rebuilds every hospital's availability set from PostgreSQL.
// Should be called before accepting traffic (startup or disaster recovery).
func (s *AvailabilitySyncService) SyncOnStartup(ctx context.Context) error {
	s.log.Info("Starting availability re-sync from database...")
	startTime := time.Now()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		s.log.Warnf("Redis is not available, skipping sync: %+v", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}

	offset := 0
	totalSynced := 0

	for {
		var hospitalIDs []int64
		err := s.db.WithContext(ctx).Model(&entity.Hospital{}).
			Order("id ASC").
			Limit(syncBatchSize).
			Offset(offset).
			Pluck("id", &hospitalIDs).Error
		if err != nil {
			s.log.Errorf("Failed to query hospitals at offset %d: %+v", offset, err)
			return fmt.Errorf("query hospitals at offset %d: %w", offset, err)
		}

		if len(hospitalIDs) == 0 {
			if offset == 0 {
				s.log.Info("No hospitals found for sync")
			}
			break
		}

		// One grouped query for the whole batch
		type availableRow struct {
			ID         int64
			HospitalID int64
		}
		var rows []availableRow
		err = s.db.WithContext(ctx).Model(&entity.Ambulance{}).
			Select("id, hospital_id").
			Where("hospital_id IN ? AND status = ?", hospitalIDs, entity.AmbulanceStatusAvailable).
			Scan(&rows).Error
		if err != nil {
			s.log.Errorf("Failed to query availability at offset %d: %+v", offset, err)
			return fmt.Errorf("query availability at offset %d: %w", offset, err)
		}

		byHospital := make(map[int64][]interface{}, len(hospitalIDs))
		for _, row := range rows {
			byHospital[row.HospitalID] = append(byHospital[row.HospitalID], row.ID)
		}

		// New pipeline per batch so memory stays bounded
		pipe := s.redisClient.TxPipeline()
		for _, hospitalID := range hospitalIDs {
			key := availableKey(hospitalID)
			pipe.Del(ctx, key)
			if members := byHospital[hospitalID]; len(members) > 0 {
				pipe.SAdd(ctx, key, members...)
			}
		}
		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Errorf("Failed to execute pipeline for batch at offset %d: %+v", offset, err)
			return fmt.Errorf("pipeline exec at offset %d: %w", offset, err)
		}

		totalSynced += len(hospitalIDs)

		if len(hospitalIDs) < syncBatchSize {
			break
		}
		offset += syncBatchSize

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Availability re-sync completed: %d hospitals synced in %v", totalSynced, time.Since(startTime))
	return nil
}

// NotifyStatusChange refreshes the mirror after a committed ambulance
// status mutation. SADD/SREM are single atomic commands, no mutex needed.
func (s *AvailabilitySyncService) NotifyStatusChange(ctx context.Context, hospitalID, ambulanceID int64, status entity.AmbulanceStatus) error {
	key := availableKey(hospitalID)

	var err error
	if status == entity.AmbulanceStatusAvailable {
		err = s.redisClient.SAdd(ctx, key, ambulanceID).Err()
	} else {
		err = s.redisClient.SRem(ctx, key, ambulanceID).Err()
	}
	if err != nil {
		s.log.Warnf("Failed to mirror status change for ambulance %d (hospital %d): %+v", ambulanceID, hospitalID, err)
		return fmt.Errorf("mirror status change for ambulance %d: %w", ambulanceID, err)
	}

	s.log.Debugf("Mirrored ambulance %d at hospital %d as %s", ambulanceID, hospitalID, status)
	return nil
}

// RemoveAmbulance drops a deleted ambulance from its hospital's set.
func (s *AvailabilitySyncService) RemoveAmbulance(ctx context.Context, hospitalID, ambulanceID int64) error {
	if err := s.redisClient.SRem(ctx, availableKey(hospitalID), ambulanceID).Err(); err != nil {
		s.log.Warnf("Failed to remove ambulance %d from mirror: %+v", ambulanceID, err)
		return fmt.Errorf("remove ambulance %d from mirror: %w", ambulanceID, err)
	}
	return nil
}

// DeleteHospitalKey removes the availability set of a removed hospital and
// immediately cleans up its mutex.
func (s *AvailabilitySyncService) DeleteHospitalKey(ctx context.Context, hospitalID int64) error {
	mt := s.getHospitalMutex(hospitalID)
	mt.mu.Lock()
	defer func() {
		mt.mu.Unlock()
		s.hospitalMu.Delete(hospitalID)
	}()

	if err := s.redisClient.Del(ctx, availableKey(hospitalID)).Err(); err != nil {
		s.log.Warnf("Failed to delete availability key for hospital %d: %+v", hospitalID, err)
		return fmt.Errorf("delete availability key for hospital %d: %w", hospitalID, err)
	}
	return nil
}

// ResyncHospital rebuilds a single hospital's set from the database.
// Multi-step (query, DEL, SADD), so it takes the hospital mutex.
func (s *AvailabilitySyncService) ResyncHospital(ctx context.Context, hospitalID int64) error {
	mt := s.getHospitalMutex(hospitalID)
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var ids []int64
	err := s.db.WithContext(ctx).Model(&entity.Ambulance{}).
		Where("hospital_id = ? AND status = ?", hospitalID, entity.AmbulanceStatusAvailable).
		Pluck("id", &ids).Error
	if err != nil {
		s.log.Warnf("Failed to query availability for hospital %d: %+v", hospitalID, err)
		return fmt.Errorf("query availability for hospital %d: %w", hospitalID, err)
	}

	key := availableKey(hospitalID)
	pipe := s.redisClient.TxPipeline()
	pipe.Del(ctx, key)
	if len(ids) > 0 {
		members := make([]interface{}, len(ids))
		for i, id := range ids {
			members[i] = id
		}
		pipe.SAdd(ctx, key, members...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warnf("Failed to resync hospital %d: %+v", hospitalID, err)
		return fmt.Errorf("resync hospital %d: %w", hospitalID, err)
	}

	s.log.Debugf("Resynced hospital %d: %d available ambulances", hospitalID, len(ids))
	return nil
}

// AvailableIDs returns the mirrored set of AVAILABLE ambulance ids for a
// hospital. Errors (including Redis being down) are the caller's cue to
// fall back to the database.
func (s *AvailabilitySyncService) AvailableIDs(ctx context.Context, hospitalID int64) ([]int64, error) {
	members, err := s.redisClient.SMembers(ctx, availableKey(hospitalID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read availability mirror for hospital %d: %w", hospitalID, err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			s.log.Warnf("Skipping malformed mirror member %q for hospital %d", m, hospitalID)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func availableKey(hospitalID int64) string {
	return fmt.Sprintf("%s%d", RedisAvailableKeyPrefix, hospitalID)
}

// getHospitalMutex returns the mutex for a specific hospital id
func (s *AvailabilitySyncService) getHospitalMutex(hospitalID int64) *mutexWithTimestamp {
	mt, _ := s.hospitalMu.LoadOrStore(hospitalID, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

// cleanupMutexMapLoop runs in background to clean stale mutexes
func (s *AvailabilitySyncService) cleanupMutexMapLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			s.cleanupStaleMutexes()
		}
	}
}

// cleanupStaleMutexes removes unused mutexes. The lastUsed check happens
// inside the lock so a concurrent user cannot be swept away.
func (s *AvailabilitySyncService) cleanupStaleMutexes() {
	cutoffTime := time.Now().Add(-mutexStaleThreshold).Unix()
	var cleaned int

	s.hospitalMu.Range(func(key, value any) bool {
		hospitalID, ok := key.(int64)
		if !ok {
			return true
		}

		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffTime {
				s.hospitalMu.Delete(hospitalID)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale mutexes", cleaned)
	}
}
