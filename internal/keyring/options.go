package keyring

import "go.uber.org/zap"

type options struct {
	logger       *zap.SugaredLogger
	layout       TimestampLayout
	strictHashes bool
}

// Option настраивает декодер.
type Option func(*options)

// WithLogger задаёт логгер для отладочных сообщений декодера.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTimestampLayout задаёт раскладку 8-байтовых меток времени.
func WithTimestampLayout(l TimestampLayout) Option {
	return func(o *options) { o.layout = l }
}

// WithStrictAttributeHashes превращает несовпадение хэша атрибута в ошибку
// декодирования вместо предупреждения в Result.Mismatches.
func WithStrictAttributeHashes(strict bool) Option {
	return func(o *options) { o.strictHashes = strict }
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop().Sugar(), layout: TimestampUint64}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
