// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package material

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDomainOf(t *testing.T) {
	for _, x := range [...]struct {
		mode  string
		trans bool
		want  Domain
	}{
		{AlphaModeOpaque, false, Opaque},
		{"", false, Opaque},
		{AlphaModeMask, false, AlphaTested},
		{AlphaModeBlend, false, AlphaBlended},
		{AlphaModeOpaque, true, Transmissive},
		{AlphaModeMask, true, TransmissiveAlphaTested},
		{AlphaModeBlend, true, TransmissiveAlphaBlended},
	} {
		if d := DomainOf(x.mode, x.trans); d != x.want {
			t.Fatalf("DomainOf(%q, %t):\nhave %v\nwant %v", x.mode, x.trans, d, x.want)
		}
	}
	if s := Domain(42).String(); s != "Domain(?)" {
		t.Fatalf("Domain.String:\nhave %s\nwant Domain(?)", s)
	}
}

func TestNew(t *testing.T) {
	m := New("m")
	if m.Name != "m" || !m.Dirty || !m.IsOpaque() {
		t.Fatalf("New:\nhave %+v", m)
	}
	if m.BaseOrDiffuseColor != (mgl32.Vec3{1, 1, 1}) || m.Opacity != 1 || m.AlphaCutoff != 0.5 || m.IOR != 1.5 {
		t.Fatalf("New: unexpected defaults\nhave %+v", m)
	}
}

func TestSetProperty(t *testing.T) {
	m := New("m")
	m.Dirty = false

	if !m.SetProperty("emissiveColor", mgl32.Vec4{0.25, 0.5, 0.75, 1}) {
		t.Fatal("Material.SetProperty(emissiveColor):\nhave false\nwant true")
	}
	if m.EmissiveColor != (mgl32.Vec3{0.25, 0.5, 0.75}) {
		t.Fatalf("Material.EmissiveColor:\nhave %v\nwant [0.25 0.5 0.75]", m.EmissiveColor)
	}
	if !m.Dirty {
		t.Fatal("Material.Dirty:\nhave false\nwant true")
	}

	m.Dirty = false
	if !m.SetProperty("roughness", mgl32.Vec4{0.125}) || m.Roughness != 0.125 {
		t.Fatalf("Material.Roughness:\nhave %v\nwant 0.125", m.Roughness)
	}
	if !m.SetProperty("enableNormalTexture", mgl32.Vec4{0.4}) || m.EnableNormalTexture {
		t.Fatal("Material.EnableNormalTexture:\nhave true\nwant false")
	}
	if !m.SetProperty("enableNormalTexture", mgl32.Vec4{0.6}) || !m.EnableNormalTexture {
		t.Fatal("Material.EnableNormalTexture:\nhave false\nwant true")
	}

	m.Dirty = false
	if m.SetProperty("nonexistent", mgl32.Vec4{1}) {
		t.Fatal("Material.SetProperty(nonexistent):\nhave true\nwant false")
	}
	if m.Dirty {
		t.Fatal("Material.Dirty:\nhave true\nwant false")
	}

	for _, name := range PropertyNames() {
		if !New("").SetProperty(name, mgl32.Vec4{1, 1, 1, 1}) {
			t.Fatalf("Material.SetProperty(%s):\nhave false\nwant true", name)
		}
	}
}
