// Package translate localizes event titles for delivery.
//
// A static term table answers first; unmapped text goes to the external
// translation collaborator when one is configured. Any failure falls back to
// the original text, so localization can never break a run.
package translate
