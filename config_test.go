package authcore

import "testing"

func TestConfigDefaults(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Audit.Enabled {
		t.Fatal("audit must default off")
	}
	if cfg.Audit.BufferSize != 256 {
		t.Fatalf("audit buffer = %d, want 256", cfg.Audit.BufferSize)
	}
	if !cfg.Audit.DropIfFull {
		t.Fatal("audit must default to non-blocking emit")
	}
	if !cfg.Metrics.Enabled {
		t.Fatal("metrics must default on")
	}
	if cfg.Metrics.EnableLatencyHistograms {
		t.Fatal("latency histograms must default off")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "defaults valid",
			mutate:    func(*Config) {},
			wantValid: true,
		},
		{
			name: "negative buffer with audit enabled invalid",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.BufferSize = -1
			},
			wantValid: false,
		},
		{
			name: "negative buffer with audit disabled tolerated",
			mutate: func(c *Config) {
				c.Audit.BufferSize = -1
			},
			wantValid: true,
		},
		{
			name: "zero buffer valid",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.BufferSize = 0
			},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantValid && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.wantValid && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCloneConfigIndependent(t *testing.T) {
	cfg := defaultConfig()
	clone := cloneConfig(cfg)

	clone.Audit.BufferSize = 1

	if cfg.Audit.BufferSize != 256 {
		t.Fatal("clone mutation leaked into original")
	}
}
