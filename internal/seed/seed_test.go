package seed_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mergington/internal/model"
	"mergington/internal/seed"
)

type stubRepo struct {
	seeded    bool
	seedErr   error
	received  []model.SeedActivity
	seedCalls int
}

func (s *stubRepo) GetAllActivities(ctx context.Context) ([]model.Activity, error) { return nil, nil }
func (s *stubRepo) GetParticipantsByActivityID(ctx context.Context, activityID int64) ([]model.Participant, error) {
	return nil, nil
}
func (s *stubRepo) SignupTx(ctx context.Context, activityName, email string) error     { return nil }
func (s *stubRepo) UnregisterTx(ctx context.Context, activityName, email string) error { return nil }
func (s *stubRepo) SeedActivitiesTx(ctx context.Context, samples []model.SeedActivity) (bool, error) {
	s.seedCalls++
	s.received = samples
	return s.seeded, s.seedErr
}
func (s *stubRepo) MigrateUp(migrationsDir string) error   { return nil }
func (s *stubRepo) MigrateDown(migrationsDir string) error { return nil }

func TestRunSeedsCatalogWhenEmpty(t *testing.T) {
	r := &stubRepo{seeded: true}
	log := zerolog.Nop()

	require.NoError(t, seed.Run(context.Background(), r, &log))

	assert.Equal(t, 1, r.seedCalls)
	require.Len(t, r.received, 9)
	for _, s := range r.received {
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.Description)
		assert.NotEmpty(t, s.Schedule)
		assert.Greater(t, s.MaxParticipants, 0)
		assert.Len(t, s.Participants, 2)
	}
}

func TestRunSkipsWhenCatalogPresent(t *testing.T) {
	r := &stubRepo{seeded: false}
	log := zerolog.Nop()

	require.NoError(t, seed.Run(context.Background(), r, &log))
	assert.Equal(t, 1, r.seedCalls)
}

func TestSamplesContainExpectedActivities(t *testing.T) {
	expected := []string{
		"Chess Club",
		"Programming Class",
		"Gym Class",
		"Soccer Team",
		"Basketball Team",
		"Art Club",
		"Drama Club",
		"Math Club",
		"Debate Team",
	}

	names := make([]string, 0, len(seed.Samples))
	for _, s := range seed.Samples {
		names = append(names, s.Name)
	}
	assert.Equal(t, expected, names)
}
