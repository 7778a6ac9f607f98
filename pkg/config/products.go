package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CatalogKind selects the remote version discovery strategy for a product.
type CatalogKind string

const (
	// CatalogBucket lists release artifacts from an object-store bucket
	// listing endpoint (XML key enumeration).
	CatalogBucket CatalogKind = "bucket"
	// CatalogMaven reads the versions from a Maven repository metadata
	// document.
	CatalogMaven CatalogKind = "maven"
)

// Product describes one supported vendor CLI: where its releases live,
// how its archives are laid out, and how to ask an installed copy for its
// version. The set is fixed; everything else in pvm is keyed off this table.
type Product struct {
	Name        string // canonical short name used on the command line
	DisplayName string
	Family      string // first path component under the install root
	Subfolder   string // second path component, also the artifact basename
	Binary      string // executable name resolved via PATH

	Catalog     CatalogKind
	MetadataURL string // fixed metadata document (maven products only)

	ProbeArgs    []string // arguments for the version probe
	ProbePattern string   // product-specific announcement regexp, version in group 1

	StripWrapper bool   // archives carry one top-level wrapper directory
	ArchiveExt   string // fixed extension, or "" for the platform default
}

var products = []Product{
	{
		Name:         "studio",
		DisplayName:  "Praxis Studio CLI",
		Family:       "praxis",
		Subfolder:    "studio-cli",
		Binary:       "studio",
		Catalog:      CatalogBucket,
		ProbeArgs:    []string{"--version"},
		ProbePattern: `Praxis Studio CLI[^0-9]*([0-9]+(?:\.[0-9]+)+)`,
		StripWrapper: true,
	},
	{
		Name:         "runner",
		DisplayName:  "Praxis Runner CLI",
		Family:       "praxis",
		Subfolder:    "runner-cli",
		Binary:       "runner",
		Catalog:      CatalogBucket,
		ProbeArgs:    []string{"version"},
		ProbePattern: `runner v([0-9]+(?:\.[0-9]+)+)`,
		StripWrapper: false,
	},
	{
		Name:         "datakit",
		DisplayName:  "Praxis DataKit CLI",
		Family:       "praxis",
		Subfolder:    "datakit-cli",
		Binary:       "datakit",
		Catalog:      CatalogMaven,
		MetadataURL:  MavenRepoBase + "/dev/praxis/datakit-cli/maven-metadata.xml",
		ProbeArgs:    []string{"--version"},
		ProbePattern: `DataKit[^0-9]*([0-9]+(?:\.[0-9]+)+)`,
		StripWrapper: true,
		ArchiveExt:   ExtZip,
	},
}

// Products returns the supported product table.
func Products() []Product {
	return products
}

// ProductNames returns the canonical names of all supported products.
func ProductNames() []string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names
}

// LookupProduct resolves a product by its canonical name, case-insensitively.
func LookupProduct(name string) (Product, error) {
	for _, p := range products {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("unknown product %q (supported: %s)",
		name, strings.Join(ProductNames(), ", "))
}

// ListingURL returns the bucket listing endpoint for a platform. Only
// meaningful for CatalogBucket products.
func (p Product) ListingURL(platform string) string {
	return fmt.Sprintf("%s/%s/?prefix=%s/", DownloadsBase, p.Subfolder, platform)
}

// DownloadURL returns the artifact URL for a version on a platform.
func (p Product) DownloadURL(version, platform string) string {
	ext := p.ArchiveExt
	if ext == "" {
		ext = DefaultArchiveExt(platform)
	}
	if p.Catalog == CatalogMaven {
		base := strings.TrimSuffix(p.MetadataURL, "/maven-metadata.xml")
		return fmt.Sprintf("%s/%s/%s-%s-%s%s", base, version, p.Subfolder, version, platform, ext)
	}
	return fmt.Sprintf("%s/%s/%s/%s/%s-%s-%s%s",
		DownloadsBase, p.Subfolder, platform, version, p.Subfolder, version, platform, ext)
}

// BaseDir returns the product's directory under the install root. Its
// direct children are version directories plus the reserved active copy.
func (p Product) BaseDir(root string) string {
	return filepath.Join(root, p.Family, p.Subfolder)
}

// VersionDir returns the directory a specific version installs into.
func (p Product) VersionDir(root, version string) string {
	return filepath.Join(p.BaseDir(root), version)
}

// ActiveDir returns the directory holding the activated copy.
func (p Product) ActiveDir(root string) string {
	return filepath.Join(p.BaseDir(root), ActiveDirName)
}
