package assets

import (
	"bytes"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/rowan/puppet"
	"github.com/phanxgames/rowan/tiled"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// Manifest names the assets to load. Paths are relative to the manifest
// file. When optimize_maps is set, every loaded map has its tile layers
// flattened to static images up front.
type Manifest struct {
	Puppets      map[string]string `yaml:"puppets"`
	Maps         map[string]string `yaml:"maps"`
	Images       map[string]string `yaml:"images"`
	OptimizeMaps bool              `yaml:"optimize_maps"`
}

// ParseManifest decodes a manifest document.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("assets: parse manifest: %w", err)
	}
	return &m, nil
}

// Library is a loaded asset catalog.
type Library struct {
	Puppets map[string]*puppet.Puppet
	Maps    map[string]*tiled.Map
	Images  map[string]*ebiten.Image
}

// Loader reads a manifest and its referenced assets. The zero value reads
// from the operating system's filesystem.
type Loader struct {
	// FS is the filesystem assets are read from. Nil means the OS
	// filesystem, with slash-separated paths.
	FS fs.FS

	// Cache shares tilesets between the catalog's maps. Nil means the
	// tiled package's default cache.
	Cache *tiled.TilesetCache
}

// Load reads a manifest file with a zero-value Loader and loads every
// asset it names.
func Load(name string) (*Library, error) {
	var l Loader
	return l.Load(name)
}

// Load reads the named manifest and loads every asset it names. Any
// missing or undecodable asset fails the whole load.
func (l *Loader) Load(name string) (*Library, error) {
	data, err := l.readFile(name)
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", name, err)
	}
	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	return l.LoadManifest(manifest, path.Dir(name))
}

// LoadManifest loads every asset a parsed manifest names, resolving paths
// against dir.
func (l *Loader) LoadManifest(manifest *Manifest, dir string) (*Library, error) {
	lib := &Library{
		Puppets: map[string]*puppet.Puppet{},
		Maps:    map[string]*tiled.Map{},
		Images:  map[string]*ebiten.Image{},
	}

	for name, source := range manifest.Puppets {
		data, err := l.readFile(path.Join(dir, source))
		if err != nil {
			return nil, fmt.Errorf("assets: puppet %q: %w", name, err)
		}
		p, err := puppet.Load(data)
		if err != nil {
			return nil, fmt.Errorf("assets: puppet %q: %w", name, err)
		}
		lib.Puppets[name] = p
	}

	mapLoader := tiled.Loader{FS: l.FS, Cache: l.Cache}
	for name, source := range manifest.Maps {
		m, err := mapLoader.LoadMap(path.Join(dir, source))
		if err != nil {
			return nil, fmt.Errorf("assets: map %q: %w", name, err)
		}
		if manifest.OptimizeMaps {
			m.Optimize()
		}
		lib.Maps[name] = m
	}

	for name, source := range manifest.Images {
		data, err := l.readFile(path.Join(dir, source))
		if err != nil {
			return nil, fmt.Errorf("assets: image %q: %w", name, err)
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("assets: image %q: %w", name, err)
		}
		lib.Images[name] = ebiten.NewImageFromImage(img)
	}

	return lib, nil
}

func (l *Loader) readFile(name string) ([]byte, error) {
	if l.FS != nil {
		return fs.ReadFile(l.FS, name)
	}
	return os.ReadFile(name)
}

// Puppet returns a named puppet from the catalog.
func (lib *Library) Puppet(name string) (*puppet.Puppet, bool) {
	p, ok := lib.Puppets[name]
	return p, ok
}

// Map returns a named map from the catalog.
func (lib *Library) Map(name string) (*tiled.Map, bool) {
	m, ok := lib.Maps[name]
	return m, ok
}

// Image returns a named image from the catalog.
func (lib *Library) Image(name string) (*ebiten.Image, bool) {
	img, ok := lib.Images[name]
	return img, ok
}
