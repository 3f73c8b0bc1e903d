package main

import "time"

type Config struct {
	BufferSize                int           `env:"BUFFER_SIZE,required=true"`
	ConnectionBufferSize      int           `env:"CONNECTION_BUFFER_SIZE,required=true"`
	SinkTimeout               time.Duration `env:"SINK_TIMEOUT,required=true"`
	BadgerFilepath            string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel                  string        `env:"LOG_LEVEL,required=true"`
	TokenDuration             time.Duration `env:"TOKEN_DURATION,default=24h"`
	PageLimit                 int           `env:"PAGE_LIMIT,default=20"`
	CensoredWords             []string      `env:"CENSORED_WORDS"`
	ModerationCharReplacement rune          `env:"MODERATION_CHARACTER_REPLACEMENT,required=true"`
	Host                      string        `env:"HOST,default=localhost"`
	Port                      int           `env:"PORT,default=8080"`
}
