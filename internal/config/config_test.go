package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armn3t/go-modfilter"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name             string
		yamlContent      string
		skipFileCreation bool
		wantConfig       *Config
		wantErr          bool
	}{
		{
			name: "full_config",
			yamlContent: `include:
  - "[Coverlet*]*"
exclude:
  - "[*.Tests]*"
modules:
  - bin/Coverlet.Core.dll
  - bin/Coverlet.Core.Tests.dll`,
			wantConfig: &Config{
				Include: []string{"[Coverlet*]*"},
				Exclude: []string{"[*.Tests]*"},
				Modules: []string{"bin/Coverlet.Core.dll", "bin/Coverlet.Core.Tests.dll"},
			},
		},
		{
			name:        "filters_only",
			yamlContent: `include: ["[*]*"]`,
			wantConfig: &Config{
				Include: []string{"[*]*"},
			},
		},
		{
			name:        "empty_file",
			yamlContent: "",
			wantConfig:  &Config{},
		},
		{
			name:        "invalid_yaml",
			yamlContent: "include: [unterminated",
			wantErr:     true,
		},
		{
			name:             "missing_file",
			skipFileCreation: true,
			wantErr:          true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "filters.yaml")
			if !tt.skipFileCreation {
				require.NoError(t, os.WriteFile(path, []byte(tt.yamlContent), 0600))
			}

			cfg, err := LoadConfig(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantConfig, cfg)
		})
	}
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig("")
	assert.EqualError(t, err, "path is required")
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("all_valid", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{
			Include: []string{"[Coverlet*]*", "[*]*"},
			Exclude: []string{"[*.Tests]*"},
		}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("no_filters", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, (&Config{}).Validate())
	})

	t.Run("aggregates_every_invalid_expression", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{
			Include: []string{"[Coverlet*]*", "Coverlet*"},
			Exclude: []string{"[]*", "[*.Tests]*", "[Foo]"},
		}

		err := cfg.Validate()
		require.Error(t, err)

		var merr *multierror.Error
		require.True(t, errors.As(err, &merr))
		require.Len(t, merr.Errors, 3)
		assert.Contains(t, merr.Errors[0].Error(), "include[1]")
		assert.Contains(t, merr.Errors[1].Error(), "exclude[0]")
		assert.Contains(t, merr.Errors[2].Error(), "exclude[2]")

		var exprErr *modfilter.ExpressionError
		require.True(t, errors.As(merr.Errors[0], &exprErr))
		assert.Equal(t, "Coverlet*", exprErr.Filter)
	})
}

func TestConfig_Merge(t *testing.T) {
	t.Parallel()

	file := &Config{
		Include: []string{"[Coverlet*]*"},
		Modules: []string{"a.dll"},
	}
	flags := &Config{
		Exclude: []string{"[*.Tests]*"},
		Modules: []string{"b.dll"},
	}

	merged := file.Merge(flags)
	assert.Equal(t, &Config{
		Include: []string{"[Coverlet*]*"},
		Exclude: []string{"[*.Tests]*"},
		Modules: []string{"a.dll", "b.dll"},
	}, merged)

	assert.Equal(t, []string{"a.dll"}, file.Modules, "Merge must not modify its receiver")
	assert.Equal(t, &Config{Include: []string{"[Coverlet*]*"}, Modules: []string{"a.dll"}}, file.Merge(nil))
}
