// Package ssecore provides the primitive building blocks used by
// higher-level searchable-encryption protocols: a wide-nonce
// authenticated cipher, a variable-length HMAC-SHA-512 PRF, and an RSA
// trapdoor permutation family with forward evaluation, private
// inversion, k-fold inversion and a pool of related public keys.
//
// This package itself only holds the error kinds and logger shared by
// the random, key, prf, cipher and tdp subpackages.
package ssecore
