package config

import "testing"

func TestParseByteSizeEnv(t *testing.T) {
	cases := []struct {
		value string
		want  int64
	}{
		{"5GB", 5 << 30},
		{"50MB", 50 << 20},
		{"512KB", 512 << 10},
		{"1.5MB", 3 << 19},
		{"1048576", 1 << 20},
		{" 10mb ", 10 << 20},
	}
	for _, tc := range cases {
		t.Setenv("TEST_BYTE_SIZE", tc.value)
		got, err := parseByteSizeEnv("TEST_BYTE_SIZE", "1")
		if err != nil {
			t.Fatalf("parseByteSizeEnv(%q) returned error: %v", tc.value, err)
		}
		if got != tc.want {
			t.Fatalf("parseByteSizeEnv(%q) = %d, want %d", tc.value, got, tc.want)
		}
	}

	for _, bad := range []string{"abc", "-5MB", "0"} {
		t.Setenv("TEST_BYTE_SIZE", bad)
		if _, err := parseByteSizeEnv("TEST_BYTE_SIZE", "1"); err == nil {
			t.Fatalf("parseByteSizeEnv(%q) expected error", bad)
		}
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "luma.db")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MaxFilesPerCourse != 30 || cfg.MaxCoursesPerUser != 10 {
		t.Fatalf("unexpected count limits: %+v", cfg)
	}
	if cfg.MaxStoragePerUser != 5<<30 || cfg.MaxFileSize != 50<<20 {
		t.Fatalf("unexpected byte limits: %+v", cfg)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("unexpected brokers: %v", cfg.KafkaBrokers)
	}
}
