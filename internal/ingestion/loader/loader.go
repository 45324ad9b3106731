package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/go-homedir"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/worldgraph/internal/domain/world"
	"github.com/yungbote/worldgraph/internal/platform/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrUnsupportedFormat = errors.New("loader: unsupported document format")

// Source names one document per category. Relative paths resolve against
// Dir; a category without a path is skipped.
type Source struct {
	Dir   string
	Files map[world.Category]string
}

type Loader struct {
	log *logger.Logger
}

func New(log *logger.Logger) *Loader {
	if log == nil {
		log = logger.NewNop()
	}
	return &Loader{log: log.With("component", "Loader")}
}

// Load reads every configured document concurrently into a Dataset.
func (l *Loader) Load(ctx context.Context, src Source) (*world.Dataset, error) {
	ds := world.NewDataset()
	g, gctx := errgroup.WithContext(ctx)

	for _, cat := range world.Categories {
		raw := strings.TrimSpace(src.Files[cat])
		if raw == "" {
			l.log.Debug("world document not configured", "category", cat)
			continue
		}
		path, err := resolvePath(src.Dir, raw)
		if err != nil {
			return nil, err
		}

		cat := cat
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var n int
			var err error
			switch cat {
			case world.CategoryCharacters:
				ds.Characters, err = decodeFile[world.Character](path)
				n = len(ds.Characters)
			case world.CategoryTools:
				ds.Tools, err = decodeFile[world.Tool](path)
				n = len(ds.Tools)
			case world.CategoryCities:
				ds.Cities, err = decodeFile[world.City](path)
				n = len(ds.Cities)
			case world.CategoryCountries:
				ds.Countries, err = decodeFile[world.Country](path)
				n = len(ds.Countries)
			case world.CategoryCitizenTypes:
				ds.CitizenTypes, err = decodeFile[world.CitizenType](path)
				n = len(ds.CitizenTypes)
			}
			if err != nil {
				return fmt.Errorf("loader: %s: %w", cat, err)
			}
			l.log.Info("world document loaded", "category", cat, "path", path, "records", n)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ds, nil
}

func resolvePath(dir, p string) (string, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf("loader: expand %q: %w", p, err)
	}
	if filepath.IsAbs(expanded) || strings.TrimSpace(dir) == "" {
		return filepath.Clean(expanded), nil
	}
	base, err := homedir.Expand(strings.TrimSpace(dir))
	if err != nil {
		return "", fmt.Errorf("loader: expand %q: %w", dir, err)
	}
	return filepath.Join(base, expanded), nil
}

func decodeFile[T any](path string) (map[string]T, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out := map[string]T{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if out == nil {
		out = map[string]T{}
	}
	return out, nil
}
