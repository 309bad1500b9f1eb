package env

import (
	"os"
)

// PodName example: k8ssta-aggregator-main-6868d88fbd-bz8zv
func PodName() string {
	return os.Getenv("PODNAME")
}
