// Package catalog joins the site's crop metadata with the GDD planner's
// thermal requirements.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/gdd-planner/internal/domain"
)

// ToolSlug marks site crops that the GDD planner offers.
const ToolSlug = "gdd-planner"

//go:embed data/crops.json data/gdd-crops.yaml
var embedded embed.FS

// Site crop ids that differ from the GDD configuration slug.
var siteIDToGDDSlug = map[string]string{
	"tomatoes": "tomato",
	"peppers":  "pepper",
	"carrots":  "carrot",
	"beets":    "beet",
	"onions":   "onion",
	"peas":     "pea",
	"beans":    "bean-bush",
}

// SiteCrop is the site-wide crop metadata shared by every planner.
type SiteCrop struct {
	ID           string   `json:"id" yaml:"id"`
	Slug         string   `json:"slug" yaml:"slug"`
	Name         string   `json:"name" yaml:"name"`
	RelatedTools []string `json:"relatedTools" yaml:"relatedTools"`
}

// Crop is a site crop the GDD planner can estimate. The embedded
// requirement carries the GDD slug and the site's display name.
type Crop struct {
	domain.CropRequirement
	SiteID   string `json:"site_id"`
	SiteSlug string `json:"site_slug"`
}

// URL is the crop's page on the site.
func (c Crop) URL() string {
	return "/crops/" + c.SiteSlug + "/"
}

// Icon returns the crop's emoji, or a seedling when none is assigned.
func (c Crop) Icon() string {
	if icon, ok := icons[c.SiteID]; ok {
		return icon
	}
	if icon, ok := icons[c.Slug]; ok {
		return icon
	}
	return "🌱"
}

// GDDSlug maps a site crop id to its GDD configuration slug.
func GDDSlug(siteID string) string {
	if slug, ok := siteIDToGDDSlug[siteID]; ok {
		return slug
	}
	return siteID
}

// Catalog is the planner's crop list, sorted by display name.
type Catalog struct {
	crops []Crop
	byID  map[string]Crop
}

// New joins site crops tagged for the planner with their GDD requirements.
// Site crops without a requirement are skipped.
func New(site []SiteCrop, gdd []domain.CropRequirement) *Catalog {
	bySlug := make(map[string]domain.CropRequirement, len(gdd))
	for _, g := range gdd {
		if g.Slug != "" {
			bySlug[g.Slug] = g
		}
	}

	c := &Catalog{byID: make(map[string]Crop)}
	for _, s := range site {
		if s.ID == "" || !slices.Contains(s.RelatedTools, ToolSlug) {
			continue
		}
		g, ok := bySlug[GDDSlug(s.ID)]
		if !ok {
			continue
		}

		crop := Crop{CropRequirement: g, SiteID: s.ID, SiteSlug: firstNonEmpty(s.Slug, s.ID)}
		crop.Name = firstNonEmpty(s.Name, g.Name, s.ID)
		c.crops = append(c.crops, crop)
		c.byID[s.ID] = crop
	}

	col := collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(c.crops, func(i, j int) bool {
		return col.CompareString(c.crops[i].Name, c.crops[j].Name) < 0
	})
	return c
}

// Load reads the site crop list and GDD configuration from files, falling
// back to the embedded copies for empty paths. Files ending in .yaml or .yml
// are decoded as YAML, anything else as JSON.
func Load(cropsFile, gddCropsFile string) (*Catalog, error) {
	var site []SiteCrop
	if err := readList(cropsFile, "data/crops.json", &site); err != nil {
		return nil, err
	}
	var gdd []domain.CropRequirement
	if err := readList(gddCropsFile, "data/gdd-crops.yaml", &gdd); err != nil {
		return nil, err
	}
	return New(site, gdd), nil
}

// Default returns the catalog built from the embedded data.
func Default() (*Catalog, error) {
	return Load("", "")
}

// Crops returns the crops in display order.
func (c *Catalog) Crops() []Crop {
	return slices.Clone(c.crops)
}

// Lookup finds a crop by site id.
func (c *Catalog) Lookup(siteID string) (Crop, bool) {
	crop, ok := c.byID[strings.TrimSpace(siteID)]
	return crop, ok
}

// Select resolves site ids in request order, skipping duplicates. Ids
// with no crop are returned separately.
func (c *Catalog) Select(ids []string) (crops []Crop, unknown []string) {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if crop, ok := c.byID[id]; ok {
			crops = append(crops, crop)
		} else {
			unknown = append(unknown, id)
		}
	}
	return crops, unknown
}

func readList(path, embeddedName string, v any) error {
	var (
		data []byte
		err  error
		name = path
	)
	if path == "" {
		name = embeddedName
		data, err = embedded.ReadFile(embeddedName)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read crop list %s: %w", name, err)
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	default:
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("decode crop list %s: %w", name, err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
