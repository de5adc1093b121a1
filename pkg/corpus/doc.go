/*
Package corpus provides SQLite-backed storage for training text and for the
history of generated samples.

Trained models are never persisted; a document is opened as a reader and fed
to a model each time one is needed.
*/
package corpus
