package config

import "testing"

func Test_readEnvBool(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		initial bool
		want    bool
	}{
		{"yes", "yes", false, true},
		{"ON", "ON", false, true},
		{"0", "0", true, false},
		{"off", "off", true, false},
		{"garbage keeps value", "maybe", true, true},
		{"empty keeps value", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ALBUMATE_TEST_BOOL", tt.env)
			got := tt.initial
			readEnvBool("ALBUMATE_TEST_BOOL", &got)
			if got != tt.want {
				t.Errorf("readEnvBool(%q) = %v, want %v", tt.env, got, tt.want)
			}
		})
	}
}

func Test_readEnvInt(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"number", "7200", 7200},
		{"not a number", "1h", 3600},
		{"empty", "", 3600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ALBUMATE_TEST_INT", tt.env)
			got := 3600
			readEnvInt("ALBUMATE_TEST_INT", &got)
			if got != tt.want {
				t.Errorf("readEnvInt(%q) = %d, want %d", tt.env, got, tt.want)
			}
		})
	}
}

func Test_readEnvString(t *testing.T) {
	t.Setenv("ALBUMATE_TEST_STRING", "")
	got := "default"
	readEnvString("ALBUMATE_TEST_STRING", &got)
	if got != "default" {
		t.Errorf("empty env overrode value: %q", got)
	}
	t.Setenv("ALBUMATE_TEST_STRING", "s3")
	readEnvString("ALBUMATE_TEST_STRING", &got)
	if got != "s3" {
		t.Errorf("readEnvString() = %q, want %q", got, "s3")
	}
}
