package models_test

import (
	"testing"

	"github.com/UnknownOlympus/iris/internal/models"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEmployees() []models.Employee {
	return []models.Employee{
		{ID: "1", Name: "Alice Johnson"},
		{ID: "2", Name: "Bob Williams"},
		{ID: "3", Name: "Charlie Brown"},
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	t.Run("removes exactly one entry and keeps order", func(t *testing.T) {
		t.Parallel()

		original := testEmployees()
		out, ok := models.Remove(original, "2")

		require.True(t, ok)
		assert.Equal(t, []models.Employee{{ID: "1", Name: "Alice Johnson"}, {ID: "3", Name: "Charlie Brown"}}, out)
		assert.Len(t, original, 3, "input must not be modified")
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()

		out, ok := models.Remove(testEmployees(), "42")

		assert.False(t, ok)
		assert.Equal(t, testEmployees(), out)
	})
}

func TestReplace(t *testing.T) {
	t.Parallel()

	t.Run("replaces in place", func(t *testing.T) {
		t.Parallel()

		original := testEmployees()
		updated := models.Employee{ID: "2", Name: "Robert Williams", Designation: "CPO"}

		out, ok := models.Replace(original, updated)

		require.True(t, ok)
		require.Len(t, out, len(original))
		assert.Equal(t, updated, out[1])
		assert.Equal(t, original[0], out[0])
		assert.Equal(t, original[2], out[2])
		assert.Equal(t, "Bob Williams", original[1].Name, "input must not be modified")
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()

		out, ok := models.Replace(testEmployees(), models.Employee{ID: "9"})

		assert.False(t, ok)
		assert.Equal(t, testEmployees(), out)
	})
}

func TestFind(t *testing.T) {
	t.Parallel()

	found, ok := models.Find(testEmployees(), "3")
	assert.True(t, ok)
	assert.Equal(t, "Charlie Brown", found.Name)

	_, ok = models.Find(testEmployees(), "missing")
	assert.False(t, ok)
}

func TestPartialEmployee_Complete(t *testing.T) {
	t.Parallel()

	t.Run("synthesizes photo from email", func(t *testing.T) {
		t.Parallel()

		p := models.PartialEmployee{Name: "Alice", Email: "a@x.com"}
		e := p.Complete("id-1")

		assert.Equal(t, "id-1", e.ID)
		assert.Equal(t, "https://picsum.photos/seed/a@x.com/400/400", e.PhotoURL)
	})

	t.Run("keeps given photo", func(t *testing.T) {
		t.Parallel()

		p := models.PartialEmployee{Email: "a@x.com", PhotoURL: "https://img.example.com/a.png", Website: "https://a.dev"}
		e := p.Complete("id-2")

		assert.Equal(t, "https://img.example.com/a.png", e.PhotoURL)
		assert.Equal(t, "https://a.dev", e.Website)
	})
}

func TestAvatarURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://i.pravatar.cc/300?u=abc", models.Employee{ID: "abc"}.AvatarURL(300))
	assert.Equal(t, "https://p/x.png", models.Employee{ID: "abc", PhotoURL: "https://p/x.png"}.AvatarURL(150))
}

func TestSeedEmployees_UniqueIDs(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, e := range models.SeedEmployees() {
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}
	assert.Len(t, seen, 3)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := models.SeedEmployees()[0]
	require.NoError(t, valid.Validate())

	invalid := models.Employee{Email: "not-an-email", Website: "nope"}
	err := invalid.Validate()
	require.Error(t, err)

	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 4)
	assert.Equal(t, "name is required", errs["name"].Error())
	assert.Contains(t, errs, "designation")
	assert.Contains(t, errs, "phone")
	assert.Contains(t, errs, "department")
	assert.NotContains(t, errs, "email", "formats are not checked")
	assert.NotContains(t, errs, "website")
}

func TestTrimmed(t *testing.T) {
	t.Parallel()

	e := models.Employee{ID: " 1 ", Name: "  Alice ", Email: "a@b.c\n"}.Trimmed()

	assert.Equal(t, "1", e.ID)
	assert.Equal(t, "Alice", e.Name)
	assert.Equal(t, "a@b.c", e.Email)
}
