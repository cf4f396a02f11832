package mock

//go:generate mockgen -destination medium.go -package mock github.com/OffBroadway/diskio/pkg/diskio Medium
