package config

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const (
	validConfigPath              = "testdata/valid_config.yaml"
	expansionConfigPath          = "testdata/expansion_config.yaml"
	expansionConfigMissingPath   = "testdata/expansion_config_missing.yaml"
	nonexistentConfigPath        = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingConfig = "expected no error loading config, got %v"
	expectedNoErrorMsg           = "expected no error, got %v"
	expectedNonNilConfig         = "expected non-nil config"
	athleteGuardName             = "athlete-guard"
	developmentEnv               = "development"
	productionEnv                = "production"
	invalidEnv                   = "invalid"
	modelsDir                    = "models"
	defaultAddress               = "127.0.0.1:8000"
	testAppName                  = "test-app"
	testChatToken                = "TEST_CHAT_TOKEN"
	testMissingVar               = "TEST_MISSING_VAR"
	expandedSecretValue          = "expanded_secret_value"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg == nil {
		t.Fatal(expectedNonNilConfig)
	}

	if cfg.App.Name != athleteGuardName {
		t.Errorf("expected app name '%s', got '%s'", athleteGuardName, cfg.App.Name)
	}

	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}

	if cfg.Model.Dir != modelsDir {
		t.Errorf("expected model dir '%s', got '%s'", modelsDir, cfg.Model.Dir)
	}

	if cfg.Chat.MaxTokens != 100 {
		t.Errorf("expected max tokens 100, got %d", cfg.Chat.MaxTokens)
	}

	if cfg.Chat.Temperature != 0.7 {
		t.Errorf("expected temperature 0.7, got %v", cfg.Chat.Temperature)
	}

	if len(cfg.Server.CORSAllowedOrigins) != 1 || cfg.Server.CORSAllowedOrigins[0] != "*" {
		t.Errorf("expected cors origins [*], got %v", cfg.Server.CORSAllowedOrigins)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("ATHLETE_GUARD_APP_NAME", testAppName)
	t.Setenv("ATHLETE_GUARD_MODEL_DIR", "/srv/models")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}

	if cfg.Model.Dir != "/srv/models" {
		t.Errorf("expected model dir from environment, got '%s'", cfg.Model.Dir)
	}
}

// TestLoadWithDefaultsMissingFile tests that defaults apply without a file
func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.Server.Address != defaultAddress {
		t.Errorf("expected default address '%s', got '%s'", defaultAddress, cfg.Server.Address)
	}

	if cfg.Chat.RateLimit != 5 {
		t.Errorf("expected default rate limit 5, got %v", cfg.Chat.RateLimit)
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	err = Validate(cfg)
	if err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestNewValidatorRegistersRules tests that the custom tags are usable
func TestNewValidatorRegistersRules(t *testing.T) {
	cv, err := NewValidator()
	if err != nil {
		t.Fatalf("expected no error registering validators, got %v", err)
	}

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}
	cfg.App.LogLevel = "verbose"
	if err := cv.Validate(cfg); err == nil {
		t.Fatal("expected validation error for invalid log level")
	}
}

// TestValidateInvalidEnvironment tests validation of invalid environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.App.Environment = invalidEnv
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid environment")
	}

	if !containsSubstring(err.Error(), "development, staging, production") {
		t.Errorf("expected environment validation message, got: %v", err)
	}
}

// TestValidateInvalidChatURL tests validation of the text generation URL
func TestValidateInvalidChatURL(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Chat.APIURL = "not a url"
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid chat url")
	}

	if !containsSubstring(err.Error(), "APIURL") {
		t.Errorf("expected APIURL validation error, got: %v", err)
	}
}

// TestValidateProductionRequiresToken tests the production cross-field checks
func TestValidateProductionRequiresToken(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.App.Environment = productionEnv
	cfg.Server.CORSAllowedOrigins = []string{"https://athleteguard.example"}
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for production without chat token")
	}

	cfg.Chat.APIToken = "secret"
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no error with chat token, got %v", err)
	}

	cfg.Server.CORSAllowedOrigins = []string{"*"}
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for wildcard origin in production")
	}
}

// TestValidateSecretsRequireRegion tests conditional secrets fields
func TestValidateSecretsRequireRegion(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Secrets.AWSEnabled = true
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for aws secrets without region")
	}

	cfg.Secrets.Region = "eu-west-2"
	cfg.Secrets.SecretName = "athlete-guard/chat"
	if err := Validate(cfg); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
}

// TestValidateHealthPortsDiffer tests the health port cross-field check
func TestValidateHealthPortsDiffer(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Health.GRPCPort = cfg.Health.Port
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for identical health ports")
	}
}

// TestIsProduction tests production environment check
func TestIsProduction(t *testing.T) {
	for env, want := range map[string]bool{developmentEnv: false, "staging": false, productionEnv: true} {
		cfg := &Config{App: AppConfig{Environment: env}}
		if got := cfg.IsProduction(); got != want {
			t.Errorf("IsProduction() for %s = %v, want %v", env, got, want)
		}
	}
}

// TestDurations tests the second-based duration accessors
func TestDurations(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{ReadTimeoutSeconds: 15, WriteTimeoutSeconds: 30, ShutdownSeconds: 10},
		Model:  ModelConfig{CacheTTLSeconds: 300},
		Chat:   ChatConfig{TimeoutSeconds: 20},
	}

	if got := cfg.CacheTTL().Seconds(); got != 300 {
		t.Errorf("expected cache ttl 300s, got %v", got)
	}
	if got := cfg.ChatTimeout().Seconds(); got != 20 {
		t.Errorf("expected chat timeout 20s, got %v", got)
	}
	if got := cfg.ReadTimeout().Seconds(); got != 15 {
		t.Errorf("expected read timeout 15s, got %v", got)
	}
	if got := cfg.WriteTimeout().Seconds(); got != 30 {
		t.Errorf("expected write timeout 30s, got %v", got)
	}
	if got := cfg.ShutdownTimeout().Seconds(); got != 10 {
		t.Errorf("expected shutdown timeout 10s, got %v", got)
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests environment variable expansion in config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	t.Setenv(testChatToken, expandedSecretValue)

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}

	if cfg.Chat.APIToken != expandedSecretValue {
		t.Errorf("expected token '%s' from environment expansion, got '%s'", expandedSecretValue, cfg.Chat.APIToken)
	}
}

// TestLoadConfigMissingEnvironmentVariable tests handling of missing environment variables
func TestLoadConfigMissingEnvironmentVariable(t *testing.T) {
	os.Unsetenv(testMissingVar)

	cfg, err := Load(expansionConfigMissingPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	// os.ExpandEnv replaces unset variables with the empty string
	if cfg.Chat.APIToken != "" {
		t.Errorf("expected empty token, got %q", cfg.Chat.APIToken)
	}
}

type fakeSecrets struct {
	out *secretsmanager.GetSecretValueOutput
	err error
	id  string
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.id = aws.ToString(in.SecretId)
	return f.out, f.err
}

// TestLoadSecretsOverlay tests that fetched secrets replace the chat token
func TestLoadSecretsOverlay(t *testing.T) {
	cfg := &Config{
		Chat:    ChatConfig{APIToken: "from-file"},
		Secrets: SecretsConfig{SecretName: "athlete-guard/chat"},
	}
	client := &fakeSecrets{out: &secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"chat_api_token":"from-aws"}`),
	}}

	if err := LoadSecrets(context.Background(), cfg, client); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if client.id != "athlete-guard/chat" {
		t.Errorf("expected secret id 'athlete-guard/chat', got '%s'", client.id)
	}
	if cfg.Chat.APIToken != "from-aws" {
		t.Errorf("expected token 'from-aws', got '%s'", cfg.Chat.APIToken)
	}
}

// TestLoadSecretsEmptyKeepsConfig tests that empty secret fields do not clear config
func TestLoadSecretsEmptyKeepsConfig(t *testing.T) {
	cfg := &Config{Chat: ChatConfig{APIToken: "from-file"}}
	client := &fakeSecrets{out: &secretsmanager.GetSecretValueOutput{
		SecretBinary: []byte(`{}`),
	}}

	if err := LoadSecrets(context.Background(), cfg, client); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.Chat.APIToken != "from-file" {
		t.Errorf("expected token to be kept, got '%s'", cfg.Chat.APIToken)
	}
}

// TestLoadSecretsErrors tests secrets manager failure modes
func TestLoadSecretsErrors(t *testing.T) {
	cfg := &Config{}

	if err := LoadSecrets(context.Background(), cfg, &fakeSecrets{err: errors.New("denied")}); err == nil {
		t.Error("expected error when secrets manager fails")
	}

	err := LoadSecrets(context.Background(), cfg, &fakeSecrets{out: &secretsmanager.GetSecretValueOutput{}})
	if !errors.Is(err, errNoSecretDataFound) {
		t.Errorf("expected errNoSecretDataFound, got %v", err)
	}

	err = LoadSecrets(context.Background(), cfg, &fakeSecrets{out: &secretsmanager.GetSecretValueOutput{
		SecretString: aws.String("not json"),
	}})
	if err == nil {
		t.Error("expected error for malformed secret JSON")
	}
}

// Helper function
func containsSubstring(str, substr string) bool {
	for i := 0; i <= len(str)-len(substr); i++ {
		if str[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

// TestReloadFromEnv tests reloading from the path named in the environment
func TestReloadFromEnv(t *testing.T) {
	cfg := &Config{App: AppConfig{Name: "stale"}}

	if err := ReloadFromEnv(cfg); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.App.Name != "stale" {
		t.Errorf("expected config untouched without path, got '%s'", cfg.App.Name)
	}

	t.Setenv("ATHLETE_GUARD_CONFIG_PATH", validConfigPath)
	if err := ReloadFromEnv(cfg); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.App.Name != athleteGuardName {
		t.Errorf("expected app name '%s' after reload, got '%s'", athleteGuardName, cfg.App.Name)
	}
}

// TestValidateMaintenanceSchedules tests cron expression validation
func TestValidateMaintenanceSchedules(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	if cfg.Maintenance.ModelCheckSchedule != "@every 1m" {
		t.Errorf("expected model check schedule '@every 1m', got '%s'", cfg.Maintenance.ModelCheckSchedule)
	}

	cfg.Maintenance.CacheReportSchedule = ""
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected empty schedule to be allowed, got %v", err)
	}

	cfg.Maintenance.ModelCheckSchedule = "every minute"
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid schedule")
	}
	if !containsSubstring(err.Error(), "maintenance.model_check_schedule") {
		t.Errorf("expected schedule name in error, got: %v", err)
	}
}

// TestValidateTracingSamplingRate tests the sampling rate bounds
func TestValidateTracingSamplingRate(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Tracing.SamplingRate = 1.5
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for sampling rate above 1")
	}
}
