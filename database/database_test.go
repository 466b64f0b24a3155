package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-site-backend/cache"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/events"
	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	gdb    *gorm.DB
	db     Database
	bus    *events.Bus
	events []events.EntityChanged
}

// newTestDB gives each test a private in-memory database with a live cache.
func newTestDB(t *testing.T) *testEnv {
	t.Helper()
	gdb, err := OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	env := &testEnv{gdb: gdb, bus: events.NewBus()}
	c := cache.New(cache.NewMemoryStore(), 0)
	c.Subscribe(env.bus)
	env.bus.Subscribe(func(e events.EntityChanged) { env.events = append(env.events, e) })

	env.db = New(gdb, WithCache(c), WithEvents(env.bus))
	require.NoError(t, env.db.Migrate())
	return env
}

func strPtr(s string) *string { return &s }

func TestParseOrderKey(t *testing.T) {
	o, err := ParseOrderKey("", OrderSort)
	require.NoError(t, err)
	assert.Equal(t, OrderSort, o)

	o, err = ParseOrderKey("created", OrderSort)
	require.NoError(t, err)
	assert.Equal(t, OrderCreated, o)

	_, err = ParseOrderKey("title", OrderSort)
	assert.True(t, errs.IsInvalidFieldError(err))
}

func TestSkillCRUD(t *testing.T) {
	env := newTestDB(t)
	ctx := context.Background()
	repo := env.db.SkillRepo()

	skill := &models.Skill{Category: "Languages", Name: "Go", Proficiency: 90, SortOrder: 1}
	require.NoError(t, repo.Create(ctx, skill))
	assert.NotEqual(t, uuid.Nil, skill.ID)

	skills, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, "Go", skills[0].Name)

	require.NoError(t, repo.Update(ctx, skill.ID, &models.Skill{Category: "Languages", Name: "Golang", Proficiency: 95}))
	skills, err = repo.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Golang", skills[0].Name, "list must reflect the update")
	assert.Equal(t, 0, skills[0].SortOrder)

	require.NoError(t, repo.Delete(ctx, skill.ID))
	skills, err = repo.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, skills)

	ops := []events.Op{}
	for _, e := range env.events {
		ops = append(ops, e.Op)
	}
	assert.Equal(t, []events.Op{events.Created, events.Updated, events.Deleted}, ops)
}

func TestCreateRejectsEmptyRequiredField(t *testing.T) {
	env := newTestDB(t)
	ctx := context.Background()

	err := env.db.SkillRepo().Create(ctx, &models.Skill{Category: "Languages", Name: "  ", Proficiency: 10})
	assert.True(t, errs.IsValidationError(err))

	n, err := env.db.SkillRepo().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, env.events)
}

func TestUpdateAndDeleteMissingRowIsNotFound(t *testing.T) {
	env := newTestDB(t)
	ctx := context.Background()
	missing := uuid.New()

	err := env.db.CertificateRepo().Update(ctx, missing, &models.Certificate{Name: "AWS SA", Issuer: "Amazon"})
	assert.True(t, errs.IsNotFound(err))

	err = env.db.CertificateRepo().Delete(ctx, missing)
	assert.True(t, errs.IsNotFound(err))
	assert.Empty(t, env.events)
}

func TestListOrdering(t *testing.T) {
	env := newTestDB(t)
	ctx := context.Background()
	repo := env.db.ExperienceRepo()

	for i, title := range []string{"Third", "First", "Second"} {
		order := []int{2, 0, 1}[i]
		require.NoError(t, repo.Create(ctx, &models.Experience{
			Title: title, Organization: "Org", Type: models.ExperienceWork, DateRange: "2020 - 2021", SortOrder: order,
		}))
	}

	rows, err := repo.List(ctx, OrderSort)
	require.NoError(t, err)
	var titles []string
	for _, r := range rows {
		titles = append(titles, r.Title)
	}
	assert.Equal(t, []string{"First", "Second", "Third"}, titles)

	_, err = env.db.CertificateRepo().List(ctx, OrderSort)
	assert.True(t, errs.IsInvalidFieldError(err), "certificates have no sort order")
}

func TestCertificateWithoutProofStoresNull(t *testing.T) {
	env := newTestDB(t)
	ctx := context.Background()

	cert := &models.Certificate{Name: "AWS SA", Issuer: "Amazon", ProofURL: strPtr("")}
	require.NoError(t, env.db.CertificateRepo().Create(ctx, cert))

	certs, err := env.db.CertificateRepo().List(ctx, "")
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Nil(t, certs[0].ProofURL)
}

func TestContactMethodURLIsNormalized(t *testing.T) {
	env := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, env.db.ContactMethodRepo().Create(ctx, &models.ContactMethod{Platform: "GitHub", URL: "github.com/x"}))
	require.NoError(t, env.db.ContactMethodRepo().Create(ctx, &models.ContactMethod{Platform: "Email", URL: "me@example.com", SortOrder: 1}))

	methods, err := env.db.ContactMethodRepo().List(ctx, "")
	require.NoError(t, err)
	require.Len(t, methods, 2)
	assert.Equal(t, "https://github.com/x", methods[0].URL)
	assert.Equal(t, "mailto:me@example.com", methods[1].URL)
}

func TestProfileSaveUpserts(t *testing.T) {
	env := newTestDB(t)
	ctx := context.Background()
	repo := env.db.ProfileRepo()

	_, err := repo.Get(ctx)
	assert.True(t, errs.IsNotFound(err))

	require.NoError(t, repo.Save(ctx, &models.Profile{Name: "Ana", Headline: "Engineer"}))
	first, err := repo.Get(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, &models.Profile{Name: "Ana P.", Headline: "Engineer", AvatarURL: strPtr("https://cdn.example.com/avatars/a.png")}))
	second, err := repo.Get(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ana P.", second.Name)
	require.NotNil(t, second.AvatarURL)

	var n int64
	require.NoError(t, env.db.db.Model(&models.Profile{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestProjectMedia(t *testing.T) {
	env := newTestDB(t)
	ctx := context.Background()

	project := &models.Project{Title: "Site", Tags: []string{" go ", ""}}
	require.NoError(t, env.db.ProjectRepo().Create(ctx, project))

	err := env.db.ProjectMediaRepo().Create(ctx, &models.ProjectMedia{ProjectID: uuid.New(), URL: "https://cdn.example.com/a.png"})
	assert.True(t, errs.IsNotFound(err), "media needs an existing project")

	for i, url := range []string{"https://cdn.example.com/b.png", "https://cdn.example.com/a.png"} {
		require.NoError(t, env.db.ProjectMediaRepo().Create(ctx, &models.ProjectMedia{
			ProjectID: project.ID, URL: url, SortOrder: 1 - i,
		}))
	}

	media, err := env.db.ProjectMediaRepo().ListForProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, media, 2)
	assert.Equal(t, "https://cdn.example.com/a.png", media[0].URL)

	projects, err := env.db.ProjectRepo().List(ctx, "")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, []string{"go"}, []string(projects[0].Tags))
	assert.Len(t, projects[0].Media, 2, "project list embeds media")

	require.NoError(t, env.db.ProjectRepo().Delete(ctx, project.ID))
	media, err = env.db.ProjectMediaRepo().ListForProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, media)
}

func TestCounts(t *testing.T) {
	env := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, env.db.MessageRepo().Create(ctx, &models.Message{Name: "Bo", Email: "bo@example.com", Content: "Hello there, nice site"}))
	require.NoError(t, env.db.SkillRepo().Create(ctx, &models.Skill{Category: "Cloud", Name: "AWS", Proficiency: 70}))

	counts, err := env.db.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Skills: 1, Messages: 1}, counts)
}

func TestCreateBatchIsAllOrNothing(t *testing.T) {
	env := newTestDB(t)
	ctx := context.Background()

	project := &models.Project{Title: "Site"}
	require.NoError(t, env.db.ProjectRepo().Create(ctx, project))

	require.NoError(t, env.gdb.Callback().Create().Before("gorm:create").Register("test:fail-broken", func(db *gorm.DB) {
		if m, ok := db.Statement.Dest.(*models.ProjectMedia); ok && strings.Contains(m.URL, "broken") {
			_ = db.AddError(errors.New("disk full"))
		}
	}))

	before := len(env.events)
	err := env.db.ProjectMediaRepo().CreateBatch(ctx, project.ID, []models.ProjectMedia{
		{URL: "/uploads/project-media/a.png", Type: models.MediaImage},
		{URL: "/uploads/project-media/broken.mp4", Type: models.MediaVideo, SortOrder: 1},
	})
	require.Error(t, err)
	assert.Len(t, env.events, before, "a failed batch publishes nothing")

	media, err := env.db.ProjectMediaRepo().ListForProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, media, "the first row is rolled back")

	items := []models.ProjectMedia{
		{URL: "/uploads/project-media/a.png", Type: models.MediaImage},
		{URL: "/uploads/project-media/b.mp4", Type: models.MediaVideo, SortOrder: 1},
	}
	require.NoError(t, env.db.ProjectMediaRepo().CreateBatch(ctx, project.ID, items))
	media, err = env.db.ProjectMediaRepo().ListForProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, media, 2)

	err = env.db.ProjectMediaRepo().CreateBatch(ctx, uuid.New(), []models.ProjectMedia{{URL: "/uploads/project-media/c.png", Type: models.MediaImage}})
	assert.True(t, errs.IsNotFound(err))
}

func TestCreateIgnoresClientID(t *testing.T) {
	env := newTestDB(t)
	ctx := context.Background()

	clientID := uuid.New()
	skill := &models.Skill{ID: clientID, Category: "Backend", Name: "Go", Proficiency: 90}
	require.NoError(t, env.db.SkillRepo().Create(ctx, skill))
	assert.NotEqual(t, clientID, skill.ID)
	assert.NotEqual(t, uuid.Nil, skill.ID)

	_, err := env.db.SkillRepo().FindByID(ctx, clientID)
	assert.True(t, errs.IsNotFound(err))
}
