package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"servo2go/internal/calibration"
	"servo2go/internal/monitor"
	"servo2go/internal/ui"
)

const (
	BucketCalibrationProfiles = "calibration_profiles"
	BucketHealthReports       = "health_reports"
)

type Persistence interface {
	Init() error

	SaveProfile(profile calibration.Profile) error
	LoadProfile(name string) (*calibration.Profile, error)
	DeleteProfile(name string) error
	ListProfiles() ([]string, error)

	SaveReport(report monitor.Report) error
	LoadLatestReport() (*monitor.Report, error)
	ListReports() ([]string, error)
}

type persistence struct {
	dbPath string
}

func NewPersistence(dbPath string) Persistence {
	return &persistence{
		dbPath: dbPath,
	}
}

func (p persistence) Init() error {
	parent := filepath.Dir(p.dbPath)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return err
	}
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(BucketCalibrationProfiles)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(BucketHealthReports))
		return err
	})
}

func (p persistence) openPersistence() (*bolt.DB, error) {
	db, err := bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		ui.Error("Could not open database file: %s", p.dbPath)
		return nil, err
	}
	return db, nil
}

// SaveProfile stores a calibration profile under its name, replacing
// an existing profile of the same name.
func (p persistence) SaveProfile(profile calibration.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(BucketCalibrationProfiles))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(profile.ProfileName), data)
	})
}

func (p persistence) LoadProfile(name string) (*calibration.Profile, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var profile *calibration.Profile
	err = db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketCalibrationProfiles))
		if bucket == nil {
			return fmt.Errorf("no calibration profile found for: %s", name)
		}
		data := bucket.Get([]byte(name))
		if data == nil {
			return fmt.Errorf("no calibration profile found for: %s", name)
		}
		loaded, err := calibration.UnmarshalProfile(data)
		if err != nil {
			return err
		}
		profile = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (p persistence) DeleteProfile(name string) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketCalibrationProfiles))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(name))
	})
}

func (p persistence) ListProfiles() ([]string, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	names := []string{}
	err = db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketCalibrationProfiles))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(key []byte, _ []byte) error {
			names = append(names, string(key))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// SaveReport stores a health report keyed by its timestamp. Bolt keeps
// keys sorted, so the latest report is always the last key.
func (p persistence) SaveReport(report monitor.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}

	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer db.Close()

	key := report.Timestamp.UTC().Format(time.RFC3339Nano)
	return db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(BucketHealthReports))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), data)
	})
}

func (p persistence) LoadLatestReport() (*monitor.Report, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var report *monitor.Report
	err = db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketHealthReports))
		if bucket == nil {
			return fmt.Errorf("no health report found")
		}
		key, data := bucket.Cursor().Last()
		if key == nil {
			return fmt.Errorf("no health report found")
		}
		loaded := monitor.Report{}
		if err := json.Unmarshal(data, &loaded); err != nil {
			return err
		}
		report = &loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (p persistence) ListReports() ([]string, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	keys := []string{}
	err = db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketHealthReports))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(key []byte, _ []byte) error {
			keys = append(keys, string(key))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
