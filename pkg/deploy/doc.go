// Package deploy keeps the per-invocation list of packages to deploy and
// runs their strategies in priority order.
//
// Higher priorities run first. A package without an explicit priority gets
// 100, or 101 when it is deployed with the copy strategy, so copied files
// land before links that may point into them. One failing package never
// stops the others; every outcome is reported as a Result.
package deploy
