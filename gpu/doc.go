// Package gpu prepares flowstroke meshes for upload to a GPU renderer.
//
// The package does not own a device. It packs ribbon and tail meshes into
// interleaved little-endian vertex and index buffers, describes their layout
// with gputypes, and compiles the bundled WGSL ribbon shader to SPIR-V with
// naga. The rendering runtime creates buffers and pipelines from these.
//
// Vertex layout (32 bytes, all float32):
//
//	offset  0  center     vec2  @location(0)
//	offset  8  normal     vec2  @location(1)
//	offset 16  side       f32   @location(2)
//	offset 20  half width f32   @location(3)
//	offset 24  energy     f32   @location(4)
//	offset 28  u          f32   @location(5)
//
// Indices are uint32 triangle lists.
package gpu
