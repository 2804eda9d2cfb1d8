// Package metrics computes the per-channel agreement statistics between a
// reference channel and a candidate channel: Pearson correlation, its square,
// RMSE, MAE and range-normalized RMSE. Every function is pure.
package metrics
