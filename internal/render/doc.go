// Package render paints a live, multi-line progress display by polling the
// progress registry on a fixed interval. It is strictly a collaborator of
// the engine: the engine never holds a reference to any rendering state,
// and disabling the renderer changes nothing about a run.
package render
