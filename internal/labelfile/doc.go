// Package labelfile reads and writes PPOCRLabel annotation files (Label.txt,
// Cache.cach): one record per line, an image identifier, a TAB, and a JSON
// array of annotation items.
package labelfile
