// Package kie assigns key classes (key_cls) to the value boxes of a scanned
// form. It works purely on layout and text: a label box is recognized by its
// normalized text, and the values are the non-label boxes to its right on the
// same visual row. When a label has no such neighbours the value is taken from
// the label's own text ("车身颜色：白" yields "白").
//
// The rules are data: a Catalogue lists, in order, the label patterns of each
// field and the key classes its values receive.
package kie
