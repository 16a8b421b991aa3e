package syncer

import (
	"context"
	"encoding/json"

	"scoutsync/internal/models"
	"scoutsync/internal/store/metadata"
)

// syncMatches runs the outgoing and incoming halves of the protocol for
// match records. Pit and driver records follow the same steps below.
func (s *Service) syncMatches(ctx context.Context, info *models.EventInfo, startMs int64) {
	recs, err := s.entries.AllMatches(ctx, info.Year, info.Event)
	if err != nil {
		s.log.Error(ctx, "failed to enumerate match entries", "error", err)
		return
	}
	watermark, err := s.meta.GetInt64(ctx, metadata.KeyLastMatchSave)
	if err != nil {
		s.log.Error(ctx, "failed to read match watermark", "error", err)
		return
	}

	// Attachments first, over every record: changed records must reference
	// already-promoted (or knowingly still-local) images before upload, and
	// records whose attachment failed in an earlier run get retried here.
	for i := range recs {
		rec := &recs[i]
		s.promoteImages(ctx, rec, func(ctx context.Context) error {
			return s.entries.PutMatch(ctx, rec)
		})
	}

	var changed []models.MatchEntry
	for i := range recs {
		if recs[i].Data.TimestampMs > watermark {
			changed = append(changed, recs[i])
		}
	}

	uploaded := true
	if len(changed) > 0 {
		if err := s.client.UploadEntries(ctx, models.RecordKindMatch, changed); err != nil {
			uploaded = false
			s.log.Error(ctx, "failed to upload match entries", "count", len(changed), "error", err)
		}
	}
	if uploaded {
		if err := s.meta.SetInt64(ctx, metadata.KeyLastMatchSave, startMs); err != nil {
			s.log.Error(ctx, "failed to advance match watermark", "error", err)
		}
	}

	// Incoming diff covers every local record, changed or not.
	markers := make([]models.KnownMatchEntry, 0, len(recs))
	for i := range recs {
		markers = append(markers, recs[i].Marker())
	}
	raw, err := s.client.FilteredEntries(ctx, models.RecordKindMatch, markers)
	if err != nil {
		s.log.Error(ctx, "failed to fetch newer match entries", "error", err)
		return
	}
	var incoming []models.MatchEntry
	if err := json.Unmarshal(raw, &incoming); err != nil {
		s.log.Error(ctx, "failed to decode newer match entries", "error", err)
		return
	}
	if len(incoming) == 0 {
		return
	}
	if err := s.entries.PutAllMatches(ctx, incoming); err != nil {
		s.log.Error(ctx, "failed to store newer match entries", "count", len(incoming), "error", err)
		return
	}
	s.log.Info(ctx, "stored newer match entries from server", "count", len(incoming))
}

func (s *Service) syncPits(ctx context.Context, info *models.EventInfo, startMs int64) {
	recs, err := s.entries.AllPits(ctx, info.Year, info.Event)
	if err != nil {
		s.log.Error(ctx, "failed to enumerate pit entries", "error", err)
		return
	}
	watermark, err := s.meta.GetInt64(ctx, metadata.KeyLastPitSave)
	if err != nil {
		s.log.Error(ctx, "failed to read pit watermark", "error", err)
		return
	}

	for i := range recs {
		rec := &recs[i]
		s.promoteImages(ctx, rec, func(ctx context.Context) error {
			return s.entries.PutPit(ctx, rec)
		})
	}

	var changed []models.PitEntry
	for i := range recs {
		if recs[i].Data.TimestampMs > watermark {
			changed = append(changed, recs[i])
		}
	}

	uploaded := true
	if len(changed) > 0 {
		if err := s.client.UploadEntries(ctx, models.RecordKindPit, changed); err != nil {
			uploaded = false
			s.log.Error(ctx, "failed to upload pit entries", "count", len(changed), "error", err)
		}
	}
	if uploaded {
		if err := s.meta.SetInt64(ctx, metadata.KeyLastPitSave, startMs); err != nil {
			s.log.Error(ctx, "failed to advance pit watermark", "error", err)
		}
	}

	markers := make([]models.KnownPitEntry, 0, len(recs))
	for i := range recs {
		markers = append(markers, recs[i].Marker())
	}
	raw, err := s.client.FilteredEntries(ctx, models.RecordKindPit, markers)
	if err != nil {
		s.log.Error(ctx, "failed to fetch newer pit entries", "error", err)
		return
	}
	var incoming []models.PitEntry
	if err := json.Unmarshal(raw, &incoming); err != nil {
		s.log.Error(ctx, "failed to decode newer pit entries", "error", err)
		return
	}
	if len(incoming) == 0 {
		return
	}
	if err := s.entries.PutAllPits(ctx, incoming); err != nil {
		s.log.Error(ctx, "failed to store newer pit entries", "count", len(incoming), "error", err)
		return
	}
	s.log.Info(ctx, "stored newer pit entries from server", "count", len(incoming))
}

func (s *Service) syncDrivers(ctx context.Context, info *models.EventInfo, startMs int64) {
	recs, err := s.entries.AllDrivers(ctx, info.Year, info.Event)
	if err != nil {
		s.log.Error(ctx, "failed to enumerate driver entries", "error", err)
		return
	}
	watermark, err := s.meta.GetInt64(ctx, metadata.KeyLastDriverSave)
	if err != nil {
		s.log.Error(ctx, "failed to read driver watermark", "error", err)
		return
	}

	for i := range recs {
		rec := &recs[i]
		s.promoteImages(ctx, rec, func(ctx context.Context) error {
			return s.entries.PutDriver(ctx, rec)
		})
	}

	var changed []models.DriverEntry
	for i := range recs {
		if recs[i].Data.TimestampMs > watermark {
			changed = append(changed, recs[i])
		}
	}

	uploaded := true
	if len(changed) > 0 {
		if err := s.client.UploadEntries(ctx, models.RecordKindDriver, changed); err != nil {
			uploaded = false
			s.log.Error(ctx, "failed to upload driver entries", "count", len(changed), "error", err)
		}
	}
	if uploaded {
		if err := s.meta.SetInt64(ctx, metadata.KeyLastDriverSave, startMs); err != nil {
			s.log.Error(ctx, "failed to advance driver watermark", "error", err)
		}
	}

	markers := make([]models.KnownDriverEntry, 0, len(recs))
	for i := range recs {
		markers = append(markers, recs[i].Marker())
	}
	raw, err := s.client.FilteredEntries(ctx, models.RecordKindDriver, markers)
	if err != nil {
		s.log.Error(ctx, "failed to fetch newer driver entries", "error", err)
		return
	}
	var incoming []models.DriverEntry
	if err := json.Unmarshal(raw, &incoming); err != nil {
		s.log.Error(ctx, "failed to decode newer driver entries", "error", err)
		return
	}
	if len(incoming) == 0 {
		return
	}
	if err := s.entries.PutAllDrivers(ctx, incoming); err != nil {
		s.log.Error(ctx, "failed to store newer driver entries", "count", len(incoming), "error", err)
		return
	}
	s.log.Info(ctx, "stored newer driver entries from server", "count", len(incoming))
}

// promoteImages uploads every still-local attachment referenced by rec and
// flips its Local flag on success, persisting the record through put.
// Failures are isolated per attachment: a failed upload leaves that image
// local (retried next run) and never blocks siblings or the record's own
// bulk upload.
func (s *Service) promoteImages(ctx context.Context, rec models.Record, put func(context.Context) error) {
	data := rec.Entry()
	dirty := false

	for id, value := range data.Entries {
		if value.Kind != models.KindImage {
			continue
		}
		images, err := value.Images()
		if err != nil {
			s.log.Warn(ctx, "skipping unreadable image value", "key", rec.StorageKey(), "field", id, "error", err)
			continue
		}

		touched := false
		for i := range images {
			if !images[i].Local {
				continue
			}
			blob, err := s.blobs.Get(ctx, images[i].ImageID)
			if err != nil {
				s.log.Warn(ctx, "failed to load attachment", "image_id", images[i].ImageID, "error", err)
				continue
			}
			if blob == nil {
				s.log.Warn(ctx, "attachment missing from blob store", "image_id", images[i].ImageID)
				continue
			}
			upload := models.ImageUpload{
				ImageID:   images[i].ImageID,
				ImageMime: images[i].ImageMime,
				ImageData: blob,
			}
			if err := s.client.UploadImage(ctx, upload); err != nil {
				s.log.Warn(ctx, "failed to upload attachment", "image_id", images[i].ImageID, "error", err)
				continue
			}
			images[i].Local = false
			touched = true
		}

		if touched {
			updated, err := value.WithImages(images)
			if err != nil {
				s.log.Error(ctx, "failed to rewrite image value", "key", rec.StorageKey(), "field", id, "error", err)
				continue
			}
			data.Entries[id] = updated
			dirty = true
		}
	}

	if dirty {
		if err := put(ctx); err != nil {
			s.log.Error(ctx, "failed to persist promoted attachments", "key", rec.StorageKey(), "error", err)
		}
	}
}
