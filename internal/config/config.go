package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// ModelConfig points at the weights and class metadata of one classifier.
type ModelConfig struct {
	ModelPath    string
	MetadataPath string
}

type Config struct {
	Port              int
	Password          string
	ImageDirectory    string // Base directory that image references are resolved against
	DatabasePath      string
	LogDirectory      string
	ClassifierBackend string // "opencv" or "onnx"
	ONNXRuntimeLib    string // Optional path to the onnxruntime shared library
	LettuceModel      ModelConfig
	DiseaseModel      ModelConfig
	PestModel         ModelConfig
	ImageSize         int   // Square edge images are resized to before inference
	TopK              int   // Predictions kept per model and image
	MaxUploadSize     int64 // Maximum multipart upload size in MB
	ShutdownTimeout   int   // Seconds to wait for in-flight requests on shutdown
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	modelDir := getEnv("MODEL_DIR", filepath.Join(".", "models"))

	return &Config{
		Port:              getEnvAsInt("PORT", 8000),
		Password:          getEnv("PASSWORD", ""),
		ImageDirectory:    getEnv("IMAGE_DIR", filepath.Join(".", "images")),
		DatabasePath:      getEnv("DB_PATH", filepath.Join(".", "data", "classify.db")),
		LogDirectory:      getEnv("LOG_DIR", filepath.Join(".", "logs")),
		ClassifierBackend: getEnv("CLASSIFIER_BACKEND", "opencv"),
		ONNXRuntimeLib:    getEnv("ONNXRUNTIME_LIB", ""),
		LettuceModel: ModelConfig{
			ModelPath:    getEnv("LETTUCE_MODEL_PATH", filepath.Join(modelDir, "lettuce.onnx")),
			MetadataPath: getEnv("LETTUCE_METADATA_PATH", filepath.Join(modelDir, "lettuce.json")),
		},
		DiseaseModel: ModelConfig{
			ModelPath:    getEnv("DISEASE_MODEL_PATH", filepath.Join(modelDir, "disease.onnx")),
			MetadataPath: getEnv("DISEASE_METADATA_PATH", filepath.Join(modelDir, "disease.json")),
		},
		PestModel: ModelConfig{
			ModelPath:    getEnv("PEST_MODEL_PATH", filepath.Join(modelDir, "pest.onnx")),
			MetadataPath: getEnv("PEST_METADATA_PATH", filepath.Join(modelDir, "pest.json")),
		},
		ImageSize:       getEnvAsInt("IMAGE_SIZE", 255),
		TopK:            getEnvAsInt("TOP_K", 3),
		MaxUploadSize:   getEnvAsInt64("MAX_UPLOAD_MB", 50),
		ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
