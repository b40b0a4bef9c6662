// Package gpu is the WebGPU compute backend. Adapters reported as CPU
// implementations form the CPU class, discrete and integrated GPUs the GPU
// class. Programs are WGSL; kernels bind their global buffers in order from
// binding 0 and their scalars packed into one uniform struct after them.
//
// Importing the package registers the backend as "wgpu".
package gpu
