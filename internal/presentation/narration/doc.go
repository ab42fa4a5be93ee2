// Package narration prints a human readable account of cascades and scenario runs.
package narration
