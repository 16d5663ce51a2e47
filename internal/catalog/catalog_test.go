package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/gdd-planner/internal/domain"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	crops := c.Crops()
	require.Len(t, crops, 23)
	assert.Equal(t, "Beans (bush)", crops[0].Name)
	assert.Equal(t, "Zucchini", crops[len(crops)-1].Name)

	tomato, ok := c.Lookup("tomatoes")
	require.True(t, ok)
	assert.Equal(t, "tomato", tomato.Slug)
	assert.Equal(t, "Tomatoes", tomato.Name)
	assert.Equal(t, 50.0, tomato.BaseF)
	assert.Equal(t, 1300.0, tomato.GDDRequired)
	assert.Equal(t, "/crops/tomatoes/", tomato.URL())
	assert.Equal(t, "🍅", tomato.Icon())

	_, ok = c.Lookup("garlic")
	assert.False(t, ok, "garlic is not tagged for the planner")
	_, ok = c.Lookup("strawberry")
	assert.False(t, ok, "strawberry has no GDD requirement")
}

func TestNew_AliasesAndFallbacks(t *testing.T) {
	site := []SiteCrop{
		{ID: "beans", RelatedTools: []string{ToolSlug}},
		{ID: "peas", Slug: "garden-peas", Name: "Garden peas", RelatedTools: []string{ToolSlug}},
		{ID: "", RelatedTools: []string{ToolSlug}},
		{ID: "okra", RelatedTools: []string{ToolSlug}},
	}
	gdd := []domain.CropRequirement{
		{Slug: "bean-bush", Name: "Bush bean", BaseF: 50, GDDRequired: 1100},
		{Slug: "pea", Name: "Pea", BaseF: 40, GDDRequired: 1300},
	}
	c := New(site, gdd)

	crops := c.Crops()
	require.Len(t, crops, 2)

	bean, ok := c.Lookup("beans")
	require.True(t, ok)
	assert.Equal(t, "bean-bush", bean.Slug)
	assert.Equal(t, "Bush bean", bean.Name, "falls back to the GDD name")
	assert.Equal(t, "beans", bean.SiteSlug, "falls back to the site id")

	pea, ok := c.Lookup("peas")
	require.True(t, ok)
	assert.Equal(t, "Garden peas", pea.Name)
	assert.Equal(t, "/crops/garden-peas/", pea.URL())
}

func TestNew_CollatedOrder(t *testing.T) {
	site := []SiteCrop{
		{ID: "b", Name: "beet", RelatedTools: []string{ToolSlug}},
		{ID: "a", Name: "Écarlate", RelatedTools: []string{ToolSlug}},
		{ID: "c", Name: "Apple", RelatedTools: []string{ToolSlug}},
	}
	gdd := []domain.CropRequirement{{Slug: "a"}, {Slug: "b"}, {Slug: "c"}}

	var names []string
	for _, crop := range New(site, gdd).Crops() {
		names = append(names, crop.Name)
	}
	assert.Equal(t, []string{"Apple", "beet", "Écarlate"}, names)
}

func TestSelect(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	crops, unknown := c.Select([]string{"peas", " tomatoes ", "peas", "", "dragonfruit"})
	require.Len(t, crops, 2)
	assert.Equal(t, "pea", crops[0].Slug)
	assert.Equal(t, "tomato", crops[1].Slug)
	assert.Equal(t, []string{"dragonfruit"}, unknown)
}

func TestGDDSlug(t *testing.T) {
	assert.Equal(t, "tomato", GDDSlug("tomatoes"))
	assert.Equal(t, "bean-bush", GDDSlug("beans"))
	assert.Equal(t, "kale", GDDSlug("kale"))
}

func TestLoad_FromFiles(t *testing.T) {
	dir := t.TempDir()
	cropsPath := filepath.Join(dir, "crops.yaml")
	gddPath := filepath.Join(dir, "gdd.json")

	require.NoError(t, os.WriteFile(cropsPath, []byte(`
- id: onions
  slug: onions
  name: Onions
  relatedTools: [gdd-planner]
`), 0o600))
	require.NoError(t, os.WriteFile(gddPath, []byte(`[{"slug":"onion","name":"Onion","base_f":40,"gdd_required":1900,"category":"cool"}]`), 0o600))

	c, err := Load(cropsPath, gddPath)
	require.NoError(t, err)

	onion, ok := c.Lookup("onions")
	require.True(t, ok)
	assert.Equal(t, 1900.0, onion.GDDRequired)
	assert.Equal(t, "cool", onion.Category)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{not json`), 0o600))

	_, err := Load(bad, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode crop list")

	_, err = Load(filepath.Join(dir, "missing.json"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read crop list")
}
