package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// До вызова Init логгер молчит: пакеты могут логировать из тестов без
// инициализации.
var sugar = zap.NewNop().Sugar()

// Init инициализирует zap logger
func Init(level, format, outputPath string) {
	var err error
	var logger *zap.Logger
	var zapConfig zap.Config

	// Уровень логирования из конфигурации
	logLevel := zap.NewAtomicLevel()
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel.SetLevel(zap.InfoLevel)
	}

	// Формат вывода из конфигурации
	encoding := "json"
	if format == "console" {
		encoding = "console"
	}

	// Конфигурация для разработки
	if format == "console" {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		// Конфигурация для продакшена
		zapConfig = zap.NewProductionConfig()
	}

	zapConfig.Level = logLevel
	zapConfig.Encoding = encoding
	zapConfig.OutputPaths = []string{"stdout"}
	if outputPath != "" {
		// Если указан путь к файлу, пишем одновременно в файл и в stdout
		_ = os.MkdirAll(outputPath, os.ModePerm)
		zapConfig.OutputPaths = append(zapConfig.OutputPaths, outputPath+"/app.log")
	}

	logger, err = zapConfig.Build()
	if err != nil {
		panic(err)
	}

	// Преобразуем Logger в SugaredLogger
	sugar = logger.Sugar()
}

// Info записывает сообщение уровня info
func Info(msg string) {
	sugar.Info(msg)
}

// Infof записывает форматированное сообщение уровня info
func Infof(template string, args ...interface{}) {
	sugar.Infof(template, args...)
}

// Infow записывает структурированное сообщение уровня info с парами ключ-значение.
// Предпочтительный способ логировать сложный контекст.
func Infow(msg string, keysAndValues ...interface{}) {
	sugar.Infow(msg, keysAndValues...)
}

// Warnf записывает форматированное сообщение уровня warn
func Warnf(template string, args ...interface{}) {
	sugar.Warnf(template, args...)
}

// Error записывает сообщение уровня error вместе с ошибкой
func Error(msg string, err error) {
	sugar.Errorw(msg, "error", err)
}

// Fatal записывает сообщение уровня fatal вместе с ошибкой и завершает процесс
func Fatal(msg string, err error) {
	sugar.Fatalw(msg, "error", err)
}

func Fatalf(template string, args ...interface{}) {
	sugar.Fatalf(template, args...)
}

func Errorf(template string, args ...interface{}) {
	sugar.Errorf(template, args...)
}

// Sync сбрасывает буферизованные записи в нижележащий Writer.
// Стоит вызывать перед завершением процесса.
func Sync() {
	_ = sugar.Sync()
}
