/*
Package charlm implements a character-level sliding-window language model.

A Model is trained on a stream of characters. For every window of
WindowLength consecutive characters it records which characters followed the
window and how often. After training, the counts of each window are turned
into probabilities and cumulative probabilities, and the model can generate
new text by repeatedly sampling the next character from the distribution of
the trailing window of the text generated so far.

Generation stops early, without error, once the trailing window was never
observed during training.
*/
package charlm
