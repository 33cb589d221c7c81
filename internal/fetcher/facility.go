package fetcher

import (
	"context"
	"iter"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/childcare-sync/internal/model"
)

// rawFacility mirrors one dataset row. Pointer fields distinguish an absent
// key from an empty value.
type rawFacility struct {
	FacilityID   *model.FacilityID `json:"facility_id"`
	FacilityName *string           `json:"facility_name"`
	ProgramType  *string           `json:"program_type"`
}

// FacilitySource downloads the facility dataset for one region.
type FacilitySource struct {
	fetcher     Fetcher
	endpoint    string
	regionField string
	region      string
}

// NewFacilitySource creates a source reading endpoint filtered by
// regionField=region. An empty regionField disables the filter.
func NewFacilitySource(f Fetcher, endpoint, regionField, region string) *FacilitySource {
	return &FacilitySource{
		fetcher:     f,
		endpoint:    endpoint,
		regionField: regionField,
		region:      region,
	}
}

// URL returns the fully-qualified dataset URL including the region filter.
func (s *FacilitySource) URL() (string, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: parse dataset endpoint %q", s.endpoint)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", eris.Errorf("fetcher: dataset endpoint %q must be an absolute URL", s.endpoint)
	}
	if s.regionField != "" {
		q := u.Query()
		q.Set(s.regionField, s.region)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Fetch downloads and decodes the whole dataset. Any transport, decoding, or
// validation failure discards everything read so far.
func (s *FacilitySource) Fetch(ctx context.Context) (*Dataset, error) {
	dsURL, err := s.URL()
	if err != nil {
		return nil, err
	}

	body, err := s.fetcher.Download(ctx, dsURL)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: fetch facilities")
	}
	defer body.Close() //nolint:errcheck

	ch, errCh := DecodeJSONArray[*rawFacility](ctx, body)

	var records []*model.FacilityRecord
	var invalid error
	for raw := range ch {
		if invalid != nil {
			continue
		}
		rec, err := raw.toRecord(len(records))
		if err != nil {
			invalid = err
			continue
		}
		records = append(records, rec)
	}
	for err := range errCh {
		if err != nil {
			return nil, eris.Wrap(err, "fetcher: decode facilities")
		}
	}
	if invalid != nil {
		return nil, invalid
	}

	zap.L().Info("fetched facility dataset",
		zap.String("url", dsURL),
		zap.Int("records", len(records)),
	)

	return NewDataset(records), nil
}

// toRecord validates a decoded row. A null row maps to a nil record.
func (r *rawFacility) toRecord(idx int) (*model.FacilityRecord, error) {
	if r == nil {
		return nil, nil
	}
	if r.FacilityID == nil || strings.TrimSpace(r.FacilityID.String()) == "" {
		return nil, eris.Errorf("fetcher: record %d: missing facility_id", idx)
	}
	if r.FacilityName == nil || strings.TrimSpace(*r.FacilityName) == "" {
		return nil, eris.Errorf("fetcher: record %d (facility_id %s): missing facility_name", idx, *r.FacilityID)
	}
	if r.ProgramType == nil {
		return nil, eris.Errorf("fetcher: record %d (facility_id %s): missing program_type", idx, *r.FacilityID)
	}
	return &model.FacilityRecord{
		ID:          *r.FacilityID,
		Name:        *r.FacilityName,
		ProgramType: model.ProgramType(*r.ProgramType),
	}, nil
}

// Dataset is a fully-fetched, validated set of facility records that can be
// iterated exactly once.
type Dataset struct {
	records  []*model.FacilityRecord
	count    int
	consumed bool
}

// NewDataset wraps already-validated records.
func NewDataset(records []*model.FacilityRecord) *Dataset {
	return &Dataset{records: records, count: len(records)}
}

// Len returns the number of records, including null rows.
func (d *Dataset) Len() int {
	return d.count
}

// Records yields records in source order with their index. Null rows yield a
// nil record. The sequence is single-pass: once iteration has started,
// subsequent calls yield nothing.
func (d *Dataset) Records() iter.Seq2[int, *model.FacilityRecord] {
	return func(yield func(int, *model.FacilityRecord) bool) {
		if d.consumed {
			return
		}
		d.consumed = true
		records := d.records
		d.records = nil
		for i, rec := range records {
			if !yield(i, rec) {
				return
			}
		}
	}
}
