// Package app holds the widget's use cases: quote acquisition with repeat
// suppression, favorites, and the session that ties them to a view.
//
// It depends only on domain types and ports; adapters are injected.
package app
