package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"servo2go/internal/calibration"
	"servo2go/internal/health"
	"servo2go/internal/monitor"
)

func createTestPersistence(t *testing.T) Persistence {
	dbPath := filepath.Join(t.TempDir(), "servo2go.db")
	p := NewPersistence(dbPath)
	assert.NoError(t, p.Init())
	return p
}

func createTestProfile(name string) calibration.Profile {
	profile := calibration.NewProfile(name)
	profile.Set("leg_front_left", calibration.ServoProfile{
		Offset:       2.5,
		Scale:        1.01,
		Trim:         -0.5,
		MinAngle:     0,
		MaxAngle:     180,
		CalibratedAt: time.Now(),
	})
	return *profile
}

func TestSaveLoadProfile(t *testing.T) {
	// GIVEN
	p := createTestPersistence(t)
	profile := createTestProfile("walking_gait")

	// WHEN
	err := p.SaveProfile(profile)
	assert.NoError(t, err)
	loaded, err := p.LoadProfile("walking_gait")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "walking_gait", loaded.ProfileName)
	assert.Equal(t, 1, loaded.ServoCount)
	servoProfile, ok := loaded.Get("leg_front_left")
	assert.True(t, ok)
	assert.Equal(t, 2.5, servoProfile.Offset)
	assert.Equal(t, 1.01, servoProfile.Scale)
}

func TestSaveProfileRejectsInvalid(t *testing.T) {
	// GIVEN a profile with a non-positive scale
	p := createTestPersistence(t)
	profile := calibration.NewProfile("broken")
	profile.Set("leg_front_left", calibration.ServoProfile{Scale: 0, MinAngle: 0, MaxAngle: 180})

	// WHEN
	err := p.SaveProfile(*profile)

	// THEN
	assert.Error(t, err)
}

func TestLoadProfileUnknownFails(t *testing.T) {
	// GIVEN
	p := createTestPersistence(t)

	// WHEN
	_, err := p.LoadProfile("ghost")

	// THEN
	assert.Error(t, err)
}

func TestDeleteProfile(t *testing.T) {
	// GIVEN
	p := createTestPersistence(t)
	assert.NoError(t, p.SaveProfile(createTestProfile("walking_gait")))

	// WHEN
	err := p.DeleteProfile("walking_gait")

	// THEN
	assert.NoError(t, err)
	_, err = p.LoadProfile("walking_gait")
	assert.Error(t, err)
}

func TestListProfiles(t *testing.T) {
	// GIVEN
	p := createTestPersistence(t)
	assert.NoError(t, p.SaveProfile(createTestProfile("crawling_gait")))
	assert.NoError(t, p.SaveProfile(createTestProfile("walking_gait")))

	// WHEN
	names, err := p.ListProfiles()

	// THEN keys come back sorted
	assert.NoError(t, err)
	assert.Equal(t, []string{"crawling_gait", "walking_gait"}, names)
}

func TestSaveLoadLatestReport(t *testing.T) {
	// GIVEN two reports, an hour apart
	p := createTestPersistence(t)
	temperature := 42.0
	older := monitor.Report{
		Timestamp: time.Now().Add(-1 * time.Hour),
		Servos: map[string]monitor.ReportEntry{
			"leg_front_left": {Status: health.StatusHealthy},
		},
	}
	latest := monitor.Report{
		Timestamp: time.Now(),
		Servos: map[string]monitor.ReportEntry{
			"leg_front_left": {Temperature: &temperature, Status: health.StatusHealthy, Movements: 7},
		},
	}
	assert.NoError(t, p.SaveReport(older))
	assert.NoError(t, p.SaveReport(latest))

	// WHEN
	loaded, err := p.LoadLatestReport()

	// THEN the newer one wins
	assert.NoError(t, err)
	entry := loaded.Servos["leg_front_left"]
	assert.Equal(t, 42.0, *entry.Temperature)
	assert.Equal(t, int64(7), entry.Movements)

	keys, err := p.ListReports()
	assert.NoError(t, err)
	assert.Len(t, keys, 2)
}

func TestLoadLatestReportEmptyFails(t *testing.T) {
	// GIVEN
	p := createTestPersistence(t)

	// WHEN
	_, err := p.LoadLatestReport()

	// THEN
	assert.Error(t, err)
}
