// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package corr implements the corrections: ellipticity interpolation,
// elevation correction, and bounce-point topography lookup with water-layer
// reverberation (pwP).
package corr

import (
	"math"

	"github.com/globalseis/travt/refdata"
	"github.com/globalseis/travt/units"
)

// ElevationCorrection computes (elev/v)·sqrt(|1-(v·p)²|), where v is
// the surface velocity (km/s) appropriate to the phase's wave type at that
// point of the path and p is the normalized ray parameter converted to
// s/km (pSecPerKm = pNorm * tNorm / EarthRadiusKm, i.e. the physical
// horizontal slowness).
func ElevationCorrection(elevKm, vKmPerSec, pSecPerKm float64) float64 {
	vp := vKmPerSec * pSecPerKm
	return (elevKm / vKmPerSec) * math.Sqrt(math.Abs(1-vp*vp))
}

// PSecPerKm converts a ray parameter dT/dΔ in s/deg (as carried on an
// Arrival) to the s/km form ElevationCorrection needs.
func PSecPerKm(dTdDeltaSecPerDeg float64) float64 {
	return dTdDeltaSecPerDeg * 180.0 / (math.Pi * units.EarthRadiusKm)
}

// bilinear performs a standard bilinear interpolation on a regular grid.
func bilinear(xGrid, yGrid []float64, z [][]float64, x, y float64) float64 {
	ix := clampBracket(xGrid, x)
	iy := clampBracket(yGrid, y)
	x0, x1 := xGrid[ix], xGrid[ix+1]
	y0, y1 := yGrid[iy], yGrid[iy+1]
	var tx, ty float64
	if math.Abs(x1-x0) > units.EpsMin {
		tx = (x - x0) / (x1 - x0)
	}
	if math.Abs(y1-y0) > units.EpsMin {
		ty = (y - y0) / (y1 - y0)
	}
	z00, z10 := z[ix][iy], z[ix+1][iy]
	z01, z11 := z[ix][iy+1], z[ix+1][iy+1]
	z0 := z00 + tx*(z10-z00)
	z1 := z01 + tx*(z11-z01)
	return z0 + ty*(z1-z0)
}

func clampBracket(grid []float64, x float64) int {
	n := len(grid)
	if n < 2 {
		return 0
	}
	if x <= grid[0] {
		return 0
	}
	if x >= grid[n-1] {
		return n - 2
	}
	i := 0
	for i < n-2 && grid[i+1] < x {
		i++
	}
	return i
}

// EllipticityCorrection bilinearly interpolates t0+t1·cos(az)+t2·sin(az)
// in (depth, Δ) from the phase's ellipticity table.
func EllipticityCorrection(tab *refdata.EllipticityTable, depthKm, deltaDeg, azDeg float64) float64 {
	if tab == nil || len(tab.Depths) == 0 || len(tab.Dist) == 0 {
		return 0
	}
	t0 := bilinear(tab.Depths, tab.Dist, tab.T0, depthKm, deltaDeg)
	t1 := bilinear(tab.Depths, tab.Dist, tab.T1, depthKm, deltaDeg)
	t2 := bilinear(tab.Depths, tab.Dist, tab.T2, depthKm, deltaDeg)
	azRad := units.DegToRad(azDeg)
	return t0 + t1*math.Cos(azRad) + t2*math.Sin(azRad)
}

// TopographyElevation bilinearly interpolates the bounce-point elevation
// (km; +land, -ocean) from a regular (lat, lon) grid.
func TopographyElevation(topo *refdata.Topography, lat, lon float64) float64 {
	if topo == nil || topo.NLat < 2 || topo.NLon < 2 {
		return 0
	}
	lats := make([]float64, topo.NLat)
	lons := make([]float64, topo.NLon)
	for i := range lats {
		lats[i] = topo.LatMin + float64(i)*topo.LatStep
	}
	for j := range lons {
		lons[j] = topo.LonMin + float64(j)*topo.LonStep
	}
	return bilinear(lats, lons, topo.Elev, lat, lon)
}

// GeocentricLatitude converts geographic latitude (degrees) to geocentric
// latitude using the flattening factor.
func GeocentricLatitude(geographicLatDeg float64) float64 {
	return units.RadToDeg(math.Atan(units.Flattening * math.Tan(units.DegToRad(geographicLatDeg))))
}

// DistanceAzimuth computes the great-circle distance and azimuth (degrees)
// from (lat1,lon1) to (lat2,lon2) on the geocentric-colatitude ellipsoid.
func DistanceAzimuth(lat1, lon1, lat2, lon2 float64) (deltaDeg, azDeg float64) {
	gc1 := units.DegToRad(90.0 - GeocentricLatitude(lat1))
	gc2 := units.DegToRad(90.0 - GeocentricLatitude(lat2))
	dLon := units.DegToRad(lon2 - lon1)

	cosDelta := math.Cos(gc1)*math.Cos(gc2) + math.Sin(gc1)*math.Sin(gc2)*math.Cos(dLon)
	cosDelta = math.Max(-1, math.Min(1, cosDelta))
	delta := math.Acos(cosDelta)

	y := math.Sin(dLon) * math.Sin(gc2)
	x := math.Sin(gc1)*math.Cos(gc2) - math.Cos(gc1)*math.Sin(gc2)*math.Cos(dLon)
	az := math.Atan2(y, x)
	if az < 0 {
		az += 2 * math.Pi
	}
	return units.RadToDeg(delta), units.RadToDeg(az)
}

// ProjectBouncePoint projects from (lat,lon) a distance distDeg along
// azimuth azDeg on the geocentric-colatitude ellipsoid, returning the
// geographic (lat,lon) of the bounce point.
func ProjectBouncePoint(lat, lon, azDeg, distDeg float64) (bounceLat, bounceLon float64) {
	gc := units.DegToRad(90.0 - GeocentricLatitude(lat))
	az := units.DegToRad(azDeg)
	delta := units.DegToRad(distDeg)

	cosGC2 := math.Cos(gc)*math.Cos(delta) + math.Sin(gc)*math.Sin(delta)*math.Cos(az)
	cosGC2 = math.Max(-1, math.Min(1, cosGC2))
	gc2 := math.Acos(cosGC2)

	y := math.Sin(az) * math.Sin(delta) * math.Sin(gc)
	x := math.Cos(delta) - math.Cos(gc)*math.Cos(gc2)
	dLon := math.Atan2(y, x)

	geocentricLat2 := 90.0 - units.RadToDeg(gc2)
	bounceLat = units.RadToDeg(math.Atan(math.Tan(units.DegToRad(geocentricLat2)) / units.Flattening))
	bounceLon = lon + units.RadToDeg(dLon)
	return
}

// PwPCorrection implements the pwP rule: a water-layer reverberation
// correction applied only when the bounce point is under water
// (elev <= PwPBounceElevThreshKm), combining the P and water-velocity
// elevation corrections with the fixed -4.67s offset.
func PwPCorrection(bounceElevKm, pSecPerKm float64) (correctionSec float64, ok bool) {
	if bounceElevKm > units.PwPBounceElevThreshKm {
		return 0, false
	}
	cP := ElevationCorrection(bounceElevKm, units.SurfVelP, pSecPerKm)
	cWater := ElevationCorrection(bounceElevKm, units.SurfVelWater, pSecPerKm)
	return 2*(cP-cWater) + units.PwPConstantSec, true
}
