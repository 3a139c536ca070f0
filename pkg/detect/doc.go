// Package detect infers the row and column count of an emoji sheet from its
// pixels.
//
// Detection runs an ordered list of attempts and stops at the first that
// yields a layout:
//
//  1. structural: per-row and per-column luminance variance profiles are
//     searched for evenly spaced flat strips (separators between cells);
//  2. catalog: the common sheet layout whose cells are closest to square;
//  3. closed-form: a layout derived from the image aspect ratio alone.
//
// The last attempt always succeeds, so Detect never fails; callers read the
// Confidence and Stage of the Result to tell how the layout was obtained.
package detect
