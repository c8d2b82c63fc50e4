package config

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

var ErrNoToken = errors.New("TELEGRAM_TOKEN не задано")

// Config збирається один раз при старті і далі лише читається.
type Config struct {
	Token   string  `mapstructure:"token"`
	AppID   int     `mapstructure:"app_id"`
	APIHash string  `mapstructure:"api_hash"`
	Session string  `mapstructure:"session"`
	Admins  []int64 `mapstructure:"admins"`

	Fetch   Fetch   `mapstructure:"fetch"`
	Collage Collage `mapstructure:"collage"`
	Log     Log     `mapstructure:"log"`
}

type CookieRule struct {
	Host string `mapstructure:"host"`
	File string `mapstructure:"file"`
}

type Fetch struct {
	AllowedHosts []string      `mapstructure:"allowed_hosts"`
	Cookies      []CookieRule  `mapstructure:"cookies"`
	MaxLinks     int           `mapstructure:"max_links"`
	MaxAlbum     int           `mapstructure:"max_album"`
	Format       string        `mapstructure:"format"`
	Workers      int           `mapstructure:"workers"`
	Attempts     int           `mapstructure:"attempts"`
	RetryDelay   time.Duration `mapstructure:"retry_delay"`
	Timeout      time.Duration `mapstructure:"timeout"`
	TempDir      string        `mapstructure:"temp_dir"`
	YtDlp        string        `mapstructure:"ytdlp"`
	GalleryDL    string        `mapstructure:"gallery_dl"`
	GalleryHosts []string      `mapstructure:"gallery_hosts"`
	UpdateCron   string        `mapstructure:"update_cron"`
}

type Collage struct {
	Wait      time.Duration `mapstructure:"wait"`
	MaxPhotos int           `mapstructure:"max_photos"`
	Quality   int           `mapstructure:"quality"`
}

type Log struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

func Default() Config {
	return Config{
		Session: "session.db",
		Fetch: Fetch{
			AllowedHosts: []string{"tiktok.com", "instagram.com", "youtu.be", "youtube.com", "x.com", "twitter.com"},
			Cookies: []CookieRule{
				{Host: "youtube.com", File: "cookies/cookies.txt"},
				{Host: "youtu.be", File: "cookies/cookies.txt"},
				{Host: "instagram.com", File: "cookies/cookiesINSTA.txt"},
				{Host: "tiktok.com", File: "cookies/cookiesTT.txt"},
			},
			MaxLinks:     3,
			MaxAlbum:     5,
			Format:       "best[ext=mp4]/best",
			Workers:      1,
			Attempts:     1,
			RetryDelay:   10 * time.Second,
			YtDlp:        "yt-dlp",
			GalleryDL:    "gallery-dl",
			GalleryHosts: []string{"instagram.com", "tiktok.com", "x.com", "twitter.com"},
		},
		Collage: Collage{
			Wait:      1500 * time.Millisecond,
			MaxPhotos: 10,
			Quality:   90,
		},
		Log: Log{
			File:       "bot.log",
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}
}

// Load читає .env, необов'язковий YAML-файл і змінні оточення.
// Порожній file означає пошук config.yaml у поточній директорії.
func Load(file string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "читання конфігурації")
		}
	}

	for key, envs := range map[string][]string{
		"token":    {"TELEGRAM_TOKEN", "BOT_TOKEN"},
		"app_id":   {"APP_ID"},
		"api_hash": {"API_HASH"},
	} {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, errors.Wrapf(err, "bind %s", key)
		}
	}

	def := Default()
	cfg := def
	// списки з файлу мають замінювати типові, а не зливатися з ними
	cfg.Fetch.AllowedHosts, cfg.Fetch.Cookies, cfg.Fetch.GalleryHosts = nil, nil, nil
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "розбір конфігурації")
	}
	if cfg.Fetch.AllowedHosts == nil {
		cfg.Fetch.AllowedHosts = def.Fetch.AllowedHosts
	}
	if cfg.Fetch.Cookies == nil {
		cfg.Fetch.Cookies = def.Fetch.Cookies
	}
	if cfg.Fetch.GalleryHosts == nil {
		cfg.Fetch.GalleryHosts = def.Fetch.GalleryHosts
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Token = strings.TrimSpace(c.Token)
	c.Fetch.AllowedHosts = lo.Map(c.Fetch.AllowedHosts, func(h string, _ int) string {
		return strings.ToLower(strings.TrimSpace(h))
	})
	c.Fetch.GalleryHosts = lo.Map(c.Fetch.GalleryHosts, func(h string, _ int) string {
		return strings.ToLower(strings.TrimSpace(h))
	})
}

func (c *Config) Validate() error {
	if c.Token == "" {
		return ErrNoToken
	}
	if c.Fetch.MaxLinks <= 0 {
		return errors.Errorf("fetch.max_links має бути > 0, отримано %d", c.Fetch.MaxLinks)
	}
	if c.Fetch.MaxAlbum <= 0 {
		return errors.Errorf("fetch.max_album має бути > 0, отримано %d", c.Fetch.MaxAlbum)
	}
	if c.Fetch.Workers <= 0 {
		return errors.Errorf("fetch.workers має бути > 0, отримано %d", c.Fetch.Workers)
	}
	if c.Fetch.Attempts <= 0 {
		return errors.Errorf("fetch.attempts має бути > 0, отримано %d", c.Fetch.Attempts)
	}
	if c.Collage.Quality < 1 || c.Collage.Quality > 100 {
		return errors.Errorf("collage.quality має бути в межах 1..100, отримано %d", c.Collage.Quality)
	}
	if (c.AppID == 0) != (c.APIHash == "") {
		return errors.New("APP_ID і API_HASH задаються лише разом")
	}
	return nil
}

// MTProto повідомляє, чи треба запускати клієнт gotgproto замість Bot API.
func (c *Config) MTProto() bool {
	return c.AppID != 0 && c.APIHash != ""
}

func (c *Config) IsAdmin(userID int64) bool {
	return lo.Contains(c.Admins, userID)
}
